// internal/connectivity/manager.go
package connectivity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

// Link reports whether the network link is usable.
type Link interface {
	Up() bool
}

// Session is one broker session. Connect establishes a fresh session
// and replaces any previous one. Nothing reconnects on its own.
type Session interface {
	Connect(ctx context.Context) error
	Connected() bool
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(topic string, payload []byte)) error
	Disconnect()
}

// Config is the minimal runtime config the manager needs.
type Config struct {
	Topics          Topics
	ConnectAttempts int
	LinkRetry       time.Duration
	SessionRetry    time.Duration
}

// Manager owns the link and session lifecycle.
// It is driven from a single goroutine; only the command
// handlers run on the session's delivery goroutine.
type Manager struct {
	cfg     Config
	link    Link
	session Session
	metrics []poller.RegisterSpec
	clock   *status.Clock
	log     *logrus.Entry

	state status.Connection
	seq   uint64

	onLine    func(line string)
	onRebirth func()

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a manager with both link and session Disconnected.
// metrics is the register map announced in DBIRTH.
func New(cfg Config, link Link, session Session, metrics []poller.RegisterSpec, clock *status.Clock, log *logrus.Entry) *Manager {
	if clock == nil {
		clock = status.NewClock()
	}
	return &Manager{
		cfg:       cfg,
		link:      link,
		session:   session,
		metrics:   metrics,
		clock:     clock,
		log:       log,
		onLine:    func(string) {},
		onRebirth: func() {},
		sleep:     sleepCtx,
	}
}

// State returns the current link and session state.
func (m *Manager) State() status.Connection { return m.state }

// Topics returns the topic set the manager publishes under.
func (m *Manager) Topics() Topics { return m.cfg.Topics }

// OnCommand registers handlers for remote commands.
// DCMD payloads go to line; an NCMD rebirth request calls rebirth.
// Handlers run on the session's delivery goroutine and must not block.
func (m *Manager) OnCommand(line func(string), rebirth func()) {
	if line != nil {
		m.onLine = line
	}
	if rebirth != nil {
		m.onRebirth = rebirth
	}
}

// ------------------------------------------------------------
// LINK
// ------------------------------------------------------------

// EnsureLink brings the link to Connected.
// Bounded: ConnectAttempts checks spaced by LinkRetry.
// On exhaustion the link stays Disconnected and ErrLinkDown is returned.
func (m *Manager) EnsureLink(ctx context.Context) error {
	if m.link.Up() {
		m.setLink(status.Connected)
		return nil
	}

	m.setLink(status.Connecting)
	m.log.WithField("attempts", m.cfg.ConnectAttempts).Info("waiting for network link")

	for attempt := 1; attempt <= m.cfg.ConnectAttempts; attempt++ {
		if err := m.sleep(ctx, m.cfg.LinkRetry); err != nil {
			m.setLink(status.Disconnected)
			return err
		}
		if m.link.Up() {
			m.setLink(status.Connected)
			m.log.WithField("attempt", attempt).Info("network link up")
			return nil
		}
	}

	m.setLink(status.Disconnected)
	m.log.Warn("network link failed")
	return ErrLinkDown
}

func (m *Manager) setLink(s status.State) {
	m.state.Link = s
	if s != status.Connected {
		m.state.Session = status.Disconnected
	}
}

// ------------------------------------------------------------
// SESSION
// ------------------------------------------------------------

// EnsureSession brings the session to Connected, running the birth
// sequence on every successful connect.
// Unbounded: failures are retried every SessionRetry until success,
// context cancellation, or the link is found down (ErrLinkDown).
func (m *Manager) EnsureSession(ctx context.Context) error {
	if m.state.Session == status.Connected {
		return nil
	}

	for attempt := 1; ; attempt++ {
		if m.state.Link != status.Connected || !m.link.Up() {
			m.setLink(status.Disconnected)
			return ErrLinkDown
		}

		m.state.Session = status.Connecting

		err := m.connect(ctx)
		if err == nil {
			m.state.Session = status.Connected
			m.log.WithField("attempt", attempt).Info("broker session established")
			m.subscribe()
			return nil
		}

		m.log.WithFields(logrus.Fields{
			"attempt": attempt,
			"retry":   m.cfg.SessionRetry,
		}).WithError(err).Warn("broker connect failed")

		if err := m.sleep(ctx, m.cfg.SessionRetry); err != nil {
			m.state.Session = status.Disconnected
			return err
		}
	}
}

// connect opens a session and announces births as one unit.
// A birth failure tears the session down.
func (m *Manager) connect(ctx context.Context) error {
	if err := m.session.Connect(ctx); err != nil {
		return err
	}
	if err := m.birth(); err != nil {
		m.session.Disconnect()
		return err
	}
	return nil
}

// birth publishes NBIRTH then DBIRTH. The sequence counter restarts at 0.
func (m *Manager) birth() error {
	m.seq = 0
	ts := m.clock.UptimeMs()

	nb, err := encodeNodeBirth(ts, m.nextSeq())
	if err != nil {
		return fmt.Errorf("connectivity: encode NBIRTH: %w", err)
	}
	if err := m.session.Publish(m.cfg.Topics.NodeBirth(), nb); err != nil {
		return fmt.Errorf("connectivity: publish NBIRTH: %w", err)
	}

	db, err := encodeDeviceBirth(ts, m.nextSeq(), m.metrics)
	if err != nil {
		return fmt.Errorf("connectivity: encode DBIRTH: %w", err)
	}
	if err := m.session.Publish(m.cfg.Topics.DeviceBirth(), db); err != nil {
		return fmt.Errorf("connectivity: publish DBIRTH: %w", err)
	}

	m.log.WithField("metrics", len(m.metrics)).Info("birth certificates published")
	return nil
}

func (m *Manager) nextSeq() uint64 {
	s := m.seq
	m.seq++
	return s
}

// Rebirth re-announces births on a live session.
// A failure drops the session so the next EnsureSession starts clean.
func (m *Manager) Rebirth() error {
	if m.state.Session != status.Connected {
		return ErrNotConnected
	}
	if err := m.birth(); err != nil {
		m.session.Disconnect()
		m.state.Session = status.Disconnected
		return err
	}
	return nil
}

// Maintain is the per-iteration liveness check.
// Link loss drops both states; session loss drops the session only.
func (m *Manager) Maintain() {
	if !m.link.Up() {
		if m.state.Link == status.Connected {
			m.log.Warn("network link lost")
		}
		m.setLink(status.Disconnected)
		return
	}

	if m.state.Session == status.Connected && !m.session.Connected() {
		m.log.Warn("broker session lost")
		m.state.Session = status.Disconnected
	}
}

// Publish sends one message on the live session.
// Failures are returned and do not change state.
func (m *Manager) Publish(topic string, payload []byte) error {
	if m.state.Session != status.Connected {
		return ErrNotConnected
	}
	if err := m.session.Publish(topic, payload); err != nil {
		return fmt.Errorf("connectivity: publish %s: %w", topic, err)
	}
	return nil
}

// Close announces NDEATH on a live session and disconnects.
func (m *Manager) Close() {
	if m.state.Session == status.Connected {
		if payload, err := encodeNodeDeath(m.clock.UptimeMs()); err == nil {
			if err := m.session.Publish(m.cfg.Topics.NodeDeath(), payload); err != nil {
				m.log.WithError(err).Warn("NDEATH publish failed")
			}
		}
	}
	m.session.Disconnect()
	m.state.Session = status.Disconnected
}

// ------------------------------------------------------------
// INBOUND COMMANDS
// ------------------------------------------------------------

func (m *Manager) subscribe() {
	subs := []struct {
		topic   string
		handler func(string, []byte)
	}{
		{m.cfg.Topics.NodeCommand(), m.handleNodeCommand},
		{m.cfg.Topics.DeviceCommand(), m.handleDeviceCommand},
	}
	for _, s := range subs {
		if err := m.session.Subscribe(s.topic, s.handler); err != nil {
			m.log.WithField("topic", s.topic).WithError(err).Warn("subscribe failed")
		}
	}
}

func (m *Manager) handleNodeCommand(topic string, payload []byte) {
	rebirth, err := wantsRebirth(payload)
	if err != nil {
		m.log.WithField("topic", topic).WithError(err).Warn("bad NCMD payload")
		return
	}
	if rebirth {
		m.onRebirth()
	}
}

func (m *Manager) handleDeviceCommand(topic string, payload []byte) {
	line := strings.TrimSpace(string(payload))
	if line == "" {
		return
	}
	m.onLine(line)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
