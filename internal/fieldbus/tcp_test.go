// internal/fieldbus/tcp_test.go
package fieldbus

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gateway is a minimal Modbus TCP server answering FC 4 and FC 6.
type gateway struct {
	ln net.Listener

	mu     sync.Mutex
	regs   map[uint16]uint16
	writes map[uint16]uint16
}

func newGateway(t *testing.T, regs map[uint16]uint16) *gateway {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	g := &gateway{ln: ln, regs: regs, writes: map[uint16]uint16{}}
	go g.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return g
}

func (g *gateway) serve() {
	for {
		conn, err := g.ln.Accept()
		if err != nil {
			return
		}
		go g.handle(conn)
	}
}

func (g *gateway) handle(conn net.Conn) {
	defer conn.Close()

	for {
		hdr := make([]byte, 7)
		if _, err := io.ReadFull(conn, hdr); err != nil {
			return
		}
		pdu := make([]byte, int(binary.BigEndian.Uint16(hdr[4:6]))-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		addr := binary.BigEndian.Uint16(pdu[1:3])
		var resp []byte

		g.mu.Lock()
		switch pdu[0] {
		case 4:
			resp = []byte{4, 2, 0, 0}
			binary.BigEndian.PutUint16(resp[2:], g.regs[addr])
		case 6:
			g.writes[addr] = binary.BigEndian.Uint16(pdu[3:5])
			resp = pdu
		default:
			resp = []byte{pdu[0] | 0x80, 1}
		}
		g.mu.Unlock()

		out := make([]byte, 7, 7+len(resp))
		copy(out, hdr[:4])
		binary.BigEndian.PutUint16(out[4:6], uint16(len(resp)+1))
		out[6] = hdr[6]
		out = append(out, resp...)

		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

func TestTCPBus_ReadAndWriteMode(t *testing.T) {
	g := newGateway(t, map[uint16]uint16{14: 2500})

	bus, err := newTCPBus(tcpConfig{Endpoint: g.ln.Addr().String(), UnitID: 1, Timeout: time.Second})
	require.NoError(t, err)
	defer bus.Close()

	c := New(bus, discard())

	v, err := c.ReadScaled(14)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, v, 1e-9)

	require.NoError(t, c.WriteMode(ModeNormal))

	g.mu.Lock()
	defer g.mu.Unlock()
	assert.Equal(t, uint16(ModeNormal), g.writes[ModeRegister])
}

func TestTCPBus_EndpointRequired(t *testing.T) {
	_, err := newTCPBus(tcpConfig{})
	assert.Error(t, err)
}
