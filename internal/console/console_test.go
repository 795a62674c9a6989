// internal/console/console_test.go
package console

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptReader returns queued lines, then err. If block is set it waits
// for Close instead of returning err.
type scriptReader struct {
	mu     sync.Mutex
	lines  []string
	err    error
	block  bool
	closed chan struct{}
	once   sync.Once
}

func newScript(err error, block bool, lines ...string) *scriptReader {
	return &scriptReader{lines: lines, err: err, block: block, closed: make(chan struct{})}
}

func (r *scriptReader) Readline() (string, error) {
	r.mu.Lock()
	if len(r.lines) > 0 {
		l := r.lines[0]
		r.lines = r.lines[1:]
		r.mu.Unlock()
		return l, nil
	}
	r.mu.Unlock()

	if r.block {
		<-r.closed
		return "", io.EOF
	}
	return "", r.err
}

func (r *scriptReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

func TestRun_ForwardsTrimmedLines(t *testing.T) {
	r := newScript(io.EOF, false, "1", "  i ", "", "45\r", "   ")
	c := NewFromReader(r, io.Discard, io.Discard)

	var got []string
	err := c.Run(context.Background(), func(l string) bool {
		got = append(got, l)
		return true
	})

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []string{"1", "i", "45"}, got)
}

func TestRun_InterruptReturned(t *testing.T) {
	r := newScript(readline.ErrInterrupt, false)
	c := NewFromReader(r, io.Discard, io.Discard)

	err := c.Run(context.Background(), func(string) bool { return true })
	assert.ErrorIs(t, err, readline.ErrInterrupt)
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := newScript(nil, true, "r")
	c := NewFromReader(r, io.Discard, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan string, 1)

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(l string) bool { lines <- l; return true })
	}()

	assert.Equal(t, "r", <-lines)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
