// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/vent-edge/internal/command"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/publisher"
	"github.com/tamzrod/vent-edge/internal/status"
)

// Input is one line of operator input or a rebirth request.
type Input struct {
	Line    string
	Rebirth bool
	Source  string // console | remote
}

// Connectivity is the lifecycle surface the loop drives.
// connectivity.Manager satisfies it.
type Connectivity interface {
	State() status.Connection
	EnsureLink(ctx context.Context) error
	EnsureSession(ctx context.Context) error
	Maintain()
	Rebirth() error
}

type Poller interface {
	Poll() poller.Reading
}

type Publisher interface {
	Publish(r poller.Reading) error
}

// Config is the minimal runtime config the scheduler needs.
type Config struct {
	Device      string
	Interval    time.Duration
	AutoEnabled bool
	Yield       time.Duration
	QueueSize   int
}

// Scheduler runs the single cooperative loop.
// Schedule and health state live here and are only touched by Step.
// Submit is the one method safe to call from other goroutines.
type Scheduler struct {
	cfg    Config
	conn   Connectivity
	poller Poller
	pub    Publisher
	modes  command.ModeWriter
	out    io.Writer
	clock  *status.Clock
	log    *logrus.Entry

	sched  status.Schedule
	health status.Health
	inputs chan Input

	// One interpreter per input source, so a pending interval
	// prompt only consumes the next line from the same source.
	interps map[string]*command.Interpreter
}

// New creates a scheduler. The first automatic poll fires one
// interval after construction.
// out receives operator feedback (prompts, menu, confirmations).
func New(cfg Config, conn Connectivity, p Poller, pub Publisher, modes command.ModeWriter, out io.Writer, clock *status.Clock, log *logrus.Entry) *Scheduler {
	if clock == nil {
		clock = status.NewClock()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}

	s := &Scheduler{
		cfg:    cfg,
		conn:   conn,
		poller: p,
		pub:    pub,
		modes:  modes,
		out:    out,
		clock:  clock,
		log:    log,
		sched: status.Schedule{
			AutoEnabled: cfg.AutoEnabled,
			Interval:    cfg.Interval,
			LastPoll:    clock.Now(),
		},
		inputs:  make(chan Input, cfg.QueueSize),
		interps: make(map[string]*command.Interpreter),
	}

	return s
}

// interpreter returns the command state machine for one input source.
func (s *Scheduler) interpreter(source string) *command.Interpreter {
	if in, ok := s.interps[source]; ok {
		return in
	}
	in := command.New(s.modes, command.Actions{
		ReadNow: s.pollAndPublish,
		Menu:    func() string { return status.Render(s.Snapshot()) },
	}, s.out, s.log.WithFields(logrus.Fields{"component": "command", "source": source}))
	s.interps[source] = in
	return in
}

// Submit queues one input without blocking.
// A full queue drops the input.
func (s *Scheduler) Submit(in Input) bool {
	select {
	case s.inputs <- in:
		return true
	default:
		s.log.WithField("source", in.Source).Warn("input queue full, dropped")
		return false
	}
}

// Schedule returns a copy of the schedule state.
func (s *Scheduler) Schedule() status.Schedule { return s.sched }

// Snapshot returns what the status menu shows.
func (s *Scheduler) Snapshot() status.Snapshot {
	return status.Snapshot{
		Device:     s.cfg.Device,
		UptimeMs:   s.clock.UptimeMs(),
		Connection: s.conn.State(),
		Schedule:   s.sched,
		Health:     s.health,
	}
}

// Run loops Step with a yield between iterations until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.WithFields(logrus.Fields{
		"interval": s.sched.Interval,
		"auto":     s.sched.AutoEnabled,
	}).Info("scheduler started")

	defer s.log.Info("scheduler stopped")

	for {
		if err := s.Step(ctx); err != nil || !s.yield(ctx) {
			return nil
		}
	}
}

func (s *Scheduler) yield(ctx context.Context) bool {
	t := time.NewTimer(s.cfg.Yield)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Step runs one loop iteration. No part of it is preempted by another.
// It returns an error only when ctx is done.
func (s *Scheduler) Step(ctx context.Context) error {
	// 1. link (bounded)
	if s.conn.State().Link != status.Connected {
		if err := s.conn.EnsureLink(ctx); err != nil {
			return ctx.Err()
		}
	}

	// 2. session + births (unbounded)
	if s.conn.State().Session != status.Connected {
		if err := s.conn.EnsureSession(ctx); err != nil {
			return ctx.Err()
		}
	}

	// 3. liveness
	s.conn.Maintain()

	// 4. at most one input
	select {
	case in := <-s.inputs:
		s.handle(in)
	default:
	}

	// 5. periodic poll
	if now := s.clock.Now(); s.sched.Due(now) {
		s.sched.LastPoll = now
		s.pollAndPublish()
	}

	return ctx.Err()
}

func (s *Scheduler) handle(in Input) {
	if in.Rebirth {
		if err := s.conn.Rebirth(); err != nil {
			s.log.WithError(err).Warn("rebirth failed")
		}
		return
	}
	s.interpreter(in.Source).Handle(in.Line, &s.sched)
}

func (s *Scheduler) pollAndPublish() {
	r := s.poller.Poll()
	err := s.pub.Publish(r)

	switch {
	case err == nil:
	case errors.Is(err, publisher.ErrInvalidReading):
		s.log.WithField("ok", r.SuccessCount).Debug("invalid reading not published")
	case errors.Is(err, publisher.ErrNotConnected):
		s.log.Warn("telemetry dropped, no broker session")
	default:
		s.log.WithError(err).Warn("telemetry dropped")
	}

	s.health.Observe(r.Valid, err == nil, r.Failed(), r.At)
}
