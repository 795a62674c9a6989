// internal/console/console.go
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// LineReader is the part of readline the console uses.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Console feeds operator lines into the agent.
// Lines are forwarded as typed; interpretation happens elsewhere.
type Console struct {
	lines  LineReader
	stdout io.Writer
	stderr io.Writer
}

// Available reports whether stdin is an interactive terminal.
func Available() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// New opens a readline console on the process terminal.
func New(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	return &Console{lines: rl, stdout: rl.Stdout(), stderr: rl.Stderr()}, nil
}

// NewFromReader wraps an existing line source.
func NewFromReader(lines LineReader, stdout, stderr io.Writer) *Console {
	return &Console{lines: lines, stdout: stdout, stderr: stderr}
}

// Stdout is where operator feedback goes without breaking the prompt.
func (c *Console) Stdout() io.Writer { return c.stdout }

// Stderr is where log output goes without breaking the prompt.
func (c *Console) Stderr() io.Writer { return c.stderr }

// Run reads lines until ctx is done, EOF or an interrupt.
// Blank lines are skipped. submit must not block.
// EOF and interrupt are returned so the caller can shut down.
func (c *Console) Run(ctx context.Context, submit func(line string) bool) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.lines.Close()
		case <-stop:
		}
	}()

	for {
		line, err := c.lines.Readline()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		submit(line)
	}
}

// Close releases the terminal.
func (c *Console) Close() error {
	return c.lines.Close()
}
