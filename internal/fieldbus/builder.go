// internal/fieldbus/builder.go
package fieldbus

import (
	"fmt"
	"time"

	"github.com/goburrow/modbus"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	cfg "github.com/tamzrod/vent-edge/internal/config"
)

// Build constructs the field bus client for the configured transport.
// The returned closer releases the port or socket.
// Connection failures at startup are returned; nothing is retried here.
func Build(c cfg.FieldBusConfig, log *logrus.Entry) (*Client, func() error, error) {
	timeout := time.Duration(c.TimeoutMs) * time.Millisecond

	switch c.Mode {
	case "rtu":
		bus, closeFn, err := buildRTU(c, timeout)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{"port": c.Port, "baud": c.Baud, "unit": c.UnitID}).Info("rtu bus open")
		return New(bus, log), closeFn, nil

	case "tcp":
		bus, err := newTCPBus(tcpConfig{Endpoint: c.Endpoint, UnitID: c.UnitID, Timeout: timeout})
		if err != nil {
			return nil, nil, fmt.Errorf("fieldbus: connect %s: %w", c.Endpoint, err)
		}
		log.WithFields(logrus.Fields{"endpoint": c.Endpoint, "unit": c.UnitID}).Info("tcp bus connected")
		return New(bus, log), bus.Close, nil

	case "sim":
		log.Warn("field bus simulator active, readings are synthetic")
		return New(NewSimBus(time.Now().UnixNano()), log), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("fieldbus: unsupported mode %q", c.Mode)
	}
}

func buildRTU(c cfg.FieldBusConfig, timeout time.Duration) (Bus, func() error, error) {
	mode := &serial.Mode{
		BaudRate: c.Baud,
		DataBits: c.DataBits,
		Parity:   parity(c.Parity),
		StopBits: stopBits(c.StopBits),
	}

	port, err := serial.Open(c.Port, mode)
	if err != nil {
		return nil, nil, fmt.Errorf("fieldbus: open %s: %w", c.Port, err)
	}

	var dir Direction = noDirection{}
	if c.Direction == "rts" {
		dir = lineDirection{port: port}
	}
	// Idle in receive mode until the first request.
	if err := dir.Receive(); err != nil {
		_ = port.Close()
		return nil, nil, fmt.Errorf("fieldbus: direction init: %w", err)
	}

	// goburrow's RTU handler is used only for framing (encode, CRC, verify);
	// the wire exchange goes through our transport.
	packager := modbus.NewRTUClientHandler(c.Port)
	packager.SlaveId = c.UnitID

	tr := newRTUTransport(port, dir, timeout, c.Baud)
	return modbus.NewClient2(packager, tr), port.Close, nil
}

func parity(p string) serial.Parity {
	switch p {
	case "E":
		return serial.EvenParity
	case "O":
		return serial.OddParity
	default:
		return serial.NoParity
	}
}

func stopBits(n int) serial.StopBits {
	if n == 2 {
		return serial.TwoStopBits
	}
	return serial.OneStopBit
}
