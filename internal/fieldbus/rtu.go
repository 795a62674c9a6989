// internal/fieldbus/rtu.go
package fieldbus

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Line is the part of a serial port the RTU transport uses.
// go.bug.st/serial.Port satisfies it.
type Line interface {
	io.ReadWriter
	Drain() error
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
}

// Direction drives the half-duplex transceiver.
// Transmit enables the driver, Receive hands the bus back.
type Direction interface {
	Transmit() error
	Receive() error
}

// lineDirection drives DE from RTS and /RE from DTR (both high while sending).
type lineDirection struct {
	port serial.Port
}

func (d lineDirection) Transmit() error { return d.set(true) }
func (d lineDirection) Receive() error  { return d.set(false) }

func (d lineDirection) set(tx bool) error {
	if err := d.port.SetRTS(tx); err != nil {
		return err
	}
	return d.port.SetDTR(tx)
}

// noDirection is used with auto-direction adapters.
type noDirection struct{}

func (noDirection) Transmit() error { return nil }
func (noDirection) Receive() error  { return nil }

// ---- RTU framing constants ----

const (
	rtuExceptionSize = 5   // addr + fc + code + crc(2)
	rtuMaxSize       = 256 // max RTU ADU
	bitsPerChar      = 11  // start + 8 data + parity/stop + stop
)

// rtuTransport implements modbus.Transporter over a Line.
// Every transaction is bracketed by Direction.Transmit/Receive.
type rtuTransport struct {
	mu      sync.Mutex
	line    Line
	dir     Direction
	timeout time.Duration

	// 3.5 character idle time required between frames.
	frameGap time.Duration
	lastIO   time.Time
}

func newRTUTransport(line Line, dir Direction, timeout time.Duration, baud int) *rtuTransport {
	if dir == nil {
		dir = noDirection{}
	}
	return &rtuTransport{
		line:     line,
		dir:      dir,
		timeout:  timeout,
		frameGap: frameGap(baud),
	}
}

// frameGap returns the 3.5 character silent interval for the baud rate.
// Above 19200 baud the fixed 1.75ms value applies.
func frameGap(baud int) time.Duration {
	if baud <= 0 || baud > 19200 {
		return 1750 * time.Microsecond
	}
	return time.Duration(35*bitsPerChar) * time.Second / time.Duration(10*baud)
}

// Send writes one request ADU and reads back its response ADU.
func (t *rtuTransport) Send(req []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(req) < 8 {
		return nil, fmt.Errorf("fieldbus: rtu request too short (%d bytes)", len(req))
	}

	want, err := responseLength(req)
	if err != nil {
		return nil, err
	}

	if wait := t.frameGap - time.Since(t.lastIO); wait > 0 {
		time.Sleep(wait)
	}
	defer func() { t.lastIO = time.Now() }()

	if err := t.line.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("fieldbus: reset input: %w", err)
	}

	if err := t.transmit(req); err != nil {
		return nil, err
	}
	return t.receive(want)
}

// transmit puts the transceiver in driver mode only for the wire exchange.
// The bus is handed back even when the write fails.
func (t *rtuTransport) transmit(req []byte) (err error) {
	if err := t.dir.Transmit(); err != nil {
		return fmt.Errorf("fieldbus: direction tx: %w", err)
	}
	defer func() {
		if rerr := t.dir.Receive(); rerr != nil && err == nil {
			err = fmt.Errorf("fieldbus: direction rx: %w", rerr)
		}
	}()

	if _, err := t.line.Write(req); err != nil {
		return fmt.Errorf("fieldbus: write: %w", err)
	}
	if err := t.line.Drain(); err != nil {
		return fmt.Errorf("fieldbus: drain: %w", err)
	}
	return nil
}

func (t *rtuTransport) receive(want int) ([]byte, error) {
	buf := make([]byte, rtuMaxSize)
	deadline := time.Now().Add(t.timeout)
	n := 0

	for n < want {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("fieldbus: response timeout (%d/%d bytes)", n, want)
		}
		if err := t.line.SetReadTimeout(remaining); err != nil {
			return nil, fmt.Errorf("fieldbus: read timeout: %w", err)
		}

		m, err := t.line.Read(buf[n:want])
		if err != nil {
			return nil, fmt.Errorf("fieldbus: read: %w", err)
		}
		n += m

		// Exception responses are shorter than the normal reply.
		if n >= 2 && buf[1]&0x80 != 0 {
			want = rtuExceptionSize
		}
	}

	return buf[:n], nil
}

// responseLength computes the expected RTU response size for a request.
func responseLength(req []byte) (int, error) {
	switch fc := req[1]; fc {
	case 3, 4:
		qty := int(binary.BigEndian.Uint16(req[4:6]))
		return 5 + 2*qty, nil // addr + fc + count + data + crc
	case 6, 16:
		return 8, nil // addr + fc + addr(2) + value/qty(2) + crc
	default:
		return 0, fmt.Errorf("fieldbus: rtu function %d unsupported", fc)
	}
}
