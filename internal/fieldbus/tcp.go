// internal/fieldbus/tcp.go
package fieldbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// tcpBus is a single TCP connection to a Modbus gateway in front of the unit.
// It serializes requests; the handler is not safe for concurrent use.
type tcpBus struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type tcpConfig struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

func newTCPBus(cfg tcpConfig) (*tcpBus, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("fieldbus tcp: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &tcpBus{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (b *tcpBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handler.Close()
}

func (b *tcpBus) ReadInputRegisters(addr, qty uint16) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client.ReadInputRegisters(addr, qty)
}

func (b *tcpBus) WriteSingleRegister(addr, value uint16) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client.WriteSingleRegister(addr, value)
}
