// internal/command/interpreter.go
package command

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/vent-edge/internal/fieldbus"
	"github.com/tamzrod/vent-edge/internal/status"
)

// Interval bounds accepted by the interval command, in seconds.
const (
	MinIntervalS = 5
	MaxIntervalS = 300
)

// ModeWriter is the field bus operation commands need.
// fieldbus.Client satisfies it.
type ModeWriter interface {
	WriteMode(mode int) error
}

// Actions are effects owned by the caller.
type Actions struct {
	// ReadNow polls once and publishes the reading.
	ReadNow func()
	// Menu renders the status menu.
	Menu func() string
}

// Outcome is what a line did. Used by callers and tests.
type Outcome uint8

const (
	OutcomeEmpty Outcome = iota
	OutcomeMode
	OutcomeModeFailed
	OutcomeRead
	OutcomeToggle
	OutcomePrompt
	OutcomeInterval
	OutcomeIgnored
	OutcomeMenu
	OutcomeUnknown
)

type state uint8

const (
	awaitingCommand state = iota
	awaitingInterval
)

// Interpreter maps operator lines onto actions.
// Commands are one character; the rest of the line is discarded.
// The interval command takes its value from the next line.
type Interpreter struct {
	modes   ModeWriter
	actions Actions
	out     io.Writer
	log     *logrus.Entry

	state state
}

func New(modes ModeWriter, actions Actions, out io.Writer, log *logrus.Entry) *Interpreter {
	if actions.ReadNow == nil {
		actions.ReadNow = func() {}
	}
	if actions.Menu == nil {
		actions.Menu = func() string { return "" }
	}
	if out == nil {
		out = io.Discard
	}
	return &Interpreter{modes: modes, actions: actions, out: out, log: log}
}

// AwaitingInterval reports whether the next line is an interval value.
func (in *Interpreter) AwaitingInterval() bool {
	return in.state == awaitingInterval
}

// Handle consumes one line of operator input.
func (in *Interpreter) Handle(line string, sched *status.Schedule) Outcome {
	if in.state == awaitingInterval {
		in.state = awaitingCommand
		return in.setInterval(line, sched)
	}

	if line == "" {
		return OutcomeEmpty
	}

	switch c := line[0]; c {
	case '0', '1', '2', '3':
		return in.writeMode(int(c - '0'))

	case 'r':
		in.actions.ReadNow()
		return OutcomeRead

	case 'a':
		sched.AutoEnabled = !sched.AutoEnabled
		fmt.Fprintf(in.out, "Auto %s\n", onOff(sched.AutoEnabled))
		in.log.WithField("auto", sched.AutoEnabled).Info("auto poll toggled")
		return OutcomeToggle

	case 'i':
		in.state = awaitingInterval
		fmt.Fprintf(in.out, "Seconds (%d-%d): ", MinIntervalS, MaxIntervalS)
		return OutcomePrompt

	case 'm':
		fmt.Fprint(in.out, in.actions.Menu())
		return OutcomeMenu

	default:
		fmt.Fprintln(in.out, "Unknown. 'm' for menu")
		in.log.WithField("input", string(c)).Debug("unknown command")
		return OutcomeUnknown
	}
}

func (in *Interpreter) writeMode(mode int) Outcome {
	if err := in.modes.WriteMode(mode); err != nil {
		if errors.Is(err, fieldbus.ErrInvalidArgument) {
			fmt.Fprintln(in.out, "ERROR: Mode 0-3 only")
		} else {
			fmt.Fprintf(in.out, "Fan mode %d ERROR: %v\n", mode, err)
		}
		in.log.WithField("mode", mode).WithError(err).Warn("mode write failed")
		return OutcomeModeFailed
	}
	fmt.Fprintf(in.out, "Fan mode %d OK\n", mode)
	return OutcomeMode
}

// setInterval applies an in-range value. Anything else is dropped silently.
func (in *Interpreter) setInterval(line string, sched *status.Schedule) Outcome {
	n, ok := parseInt(line)
	if !ok || n < MinIntervalS || n > MaxIntervalS {
		in.log.WithField("input", line).Debug("interval ignored")
		return OutcomeIgnored
	}

	sched.Interval = time.Duration(n) * time.Second
	fmt.Fprintf(in.out, "Interval: %d sec\n", n)
	in.log.WithField("interval", sched.Interval).Info("poll interval set")
	return OutcomeInterval
}

// parseInt reads the first integer in s: leading junk is skipped,
// an optional minus sign is honoured, digits are read up to the first
// non-digit. Magnitudes are clamped well outside any accepted range.
func parseInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] != '-' && !isDigit(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}

	start := i
	n := 0
	for i < len(s) && isDigit(s[i]) {
		if n < 1_000_000 {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	if i == start {
		return 0, false
	}

	if neg {
		n = -n
	}
	return n, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
