// internal/command/interpreter_test.go
package command

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/vent-edge/internal/fieldbus"
	"github.com/tamzrod/vent-edge/internal/logging"
	"github.com/tamzrod/vent-edge/internal/status"
)

type fakeModes struct {
	writes []int
	err    error
}

func (f *fakeModes) WriteMode(mode int) error {
	f.writes = append(f.writes, mode)
	return f.err
}

type fixture struct {
	in    *Interpreter
	modes *fakeModes
	out   *bytes.Buffer
	reads int
	sched *status.Schedule
}

func newFixture() *fixture {
	f := &fixture{
		modes: &fakeModes{},
		out:   &bytes.Buffer{},
		sched: &status.Schedule{AutoEnabled: true, Interval: 10 * time.Second},
	}
	f.in = New(f.modes, Actions{
		ReadNow: func() { f.reads++ },
		Menu:    func() string { return "MENU\n" },
	}, f.out, logging.Discard())
	return f
}

func TestModeCommands(t *testing.T) {
	f := newFixture()

	for _, line := range []string{"0", "1", "2", "3"} {
		assert.Equal(t, OutcomeMode, f.in.Handle(line, f.sched))
	}
	assert.Equal(t, []int{0, 1, 2, 3}, f.modes.writes)
	assert.Contains(t, f.out.String(), "Fan mode 3 OK")
}

func TestModeCommand_RestOfLineDiscarded(t *testing.T) {
	f := newFixture()

	assert.Equal(t, OutcomeMode, f.in.Handle("2xyz", f.sched))
	assert.Equal(t, []int{2}, f.modes.writes)
}

func TestModeCommand_Failure(t *testing.T) {
	f := newFixture()
	f.modes.err = &fieldbus.TransactionError{Op: "write", Address: fieldbus.ModeRegister, Err: errors.New("timeout")}

	assert.Equal(t, OutcomeModeFailed, f.in.Handle("1", f.sched))
	assert.Contains(t, f.out.String(), "ERROR")
}

func TestIntervalCommand(t *testing.T) {
	f := newFixture()

	assert.Equal(t, OutcomePrompt, f.in.Handle("i", f.sched))
	assert.True(t, f.in.AwaitingInterval())
	assert.Contains(t, f.out.String(), "Seconds (5-300): ")

	assert.Equal(t, OutcomeInterval, f.in.Handle("45", f.sched))
	assert.Equal(t, 45000*time.Millisecond, f.sched.Interval)
	assert.False(t, f.in.AwaitingInterval())
}

func TestIntervalCommand_OutOfRangeIgnored(t *testing.T) {
	f := newFixture()
	f.sched.Interval = 45 * time.Second

	for _, v := range []string{"400", "4", "0", "-10", "abc", ""} {
		f.in.Handle("i", f.sched)
		assert.Equal(t, OutcomeIgnored, f.in.Handle(v, f.sched), "input %q", v)
		assert.Equal(t, 45*time.Second, f.sched.Interval)
		assert.False(t, f.in.AwaitingInterval())
	}
	assert.Empty(t, f.modes.writes)
}

func TestIntervalCommand_ValueIsNotACommand(t *testing.T) {
	f := newFixture()

	f.in.Handle("i", f.sched)
	assert.Equal(t, OutcomeIgnored, f.in.Handle("3", f.sched))
	assert.Empty(t, f.modes.writes)

	// back to commands afterwards
	assert.Equal(t, OutcomeMode, f.in.Handle("3", f.sched))
}

func TestIntervalBounds(t *testing.T) {
	f := newFixture()

	f.in.Handle("i", f.sched)
	assert.Equal(t, OutcomeInterval, f.in.Handle("5", f.sched))
	assert.Equal(t, 5*time.Second, f.sched.Interval)

	f.in.Handle("i", f.sched)
	assert.Equal(t, OutcomeInterval, f.in.Handle("  300 sec", f.sched))
	assert.Equal(t, 300*time.Second, f.sched.Interval)
}

func TestAutoToggle(t *testing.T) {
	f := newFixture()

	assert.Equal(t, OutcomeToggle, f.in.Handle("a", f.sched))
	assert.False(t, f.sched.AutoEnabled)
	assert.Equal(t, OutcomeToggle, f.in.Handle("a", f.sched))
	assert.True(t, f.sched.AutoEnabled)
	assert.Contains(t, f.out.String(), "Auto OFF")
}

func TestReadAndMenu(t *testing.T) {
	f := newFixture()

	assert.Equal(t, OutcomeRead, f.in.Handle("r", f.sched))
	assert.Equal(t, 1, f.reads)

	assert.Equal(t, OutcomeMenu, f.in.Handle("m", f.sched))
	assert.Contains(t, f.out.String(), "MENU")
}

func TestUnknownAndEmpty(t *testing.T) {
	f := newFixture()

	assert.Equal(t, OutcomeUnknown, f.in.Handle("x", f.sched))
	assert.Equal(t, OutcomeUnknown, f.in.Handle("4", f.sched))
	assert.Contains(t, f.out.String(), "Unknown. 'm' for menu")
	assert.Equal(t, OutcomeEmpty, f.in.Handle("", f.sched))
	assert.Empty(t, f.modes.writes)
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"45", 45, true},
		{"  45\r", 45, true},
		{"x12y", 12, true},
		{"-7", -7, true},
		{"12 34", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		n, ok := parseInt(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		assert.Equal(t, c.want, n, "input %q", c.in)
	}

	n, ok := parseInt("99999999999999999999")
	assert.True(t, ok)
	assert.Greater(t, n, MaxIntervalS)
}
