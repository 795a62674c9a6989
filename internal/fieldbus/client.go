// internal/fieldbus/client.go
package fieldbus

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Bus abstracts the Modbus operations the agent needs.
// goburrow's modbus.Client satisfies it.
type Bus interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error) // FC 4
	WriteSingleRegister(address, value uint16) ([]byte, error)   // FC 6
}

// ModeRegister is the write-only run mode command register.
const ModeRegister uint16 = 367

// Run modes accepted by the unit.
const (
	ModeOff = iota
	ModeReduced
	ModeNormal
	ModeAuto
)

var modeNames = [...]string{"off", "reduced", "normal", "auto"}

// ModeName returns a display name for a run mode value.
func ModeName(mode int) string {
	if mode < 0 || mode >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", mode)
	}
	return modeNames[mode]
}

// Client issues single-register transactions against one unit.
// One call = one bus transaction. No retries.
type Client struct {
	bus Bus
	log *logrus.Entry
}

func New(bus Bus, log *logrus.Entry) *Client {
	return &Client{bus: bus, log: log}
}

// ReadRaw reads one input register and returns it unscaled.
func (c *Client) ReadRaw(addr uint16) (uint16, error) {
	b, err := c.bus.ReadInputRegisters(addr, 1)
	if err != nil {
		return 0, &TransactionError{Op: "read", Address: addr, Err: err}
	}
	if len(b) < 2 {
		return 0, &TransactionError{Op: "read", Address: addr, Err: errShortResponse}
	}
	return binary.BigEndian.Uint16(b[:2]), nil
}

// ReadScaled reads one register holding a tenths fixed-point value.
func (c *Client) ReadScaled(addr uint16) (float64, error) {
	v, err := c.ReadRaw(addr)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10.0, nil
}

// WriteMode commands the unit's run mode.
// Out-of-range values are rejected before touching the bus.
func (c *Client) WriteMode(mode int) error {
	if mode < ModeOff || mode > ModeAuto {
		return fmt.Errorf("%w: mode %d not in 0-3", ErrInvalidArgument, mode)
	}

	if _, err := c.bus.WriteSingleRegister(ModeRegister, uint16(mode)); err != nil {
		return &TransactionError{Op: "write", Address: ModeRegister, Err: err}
	}

	c.log.WithField("mode", ModeName(mode)).Info("run mode written")
	return nil
}
