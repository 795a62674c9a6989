// internal/publisher/publisher.go
package publisher

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/vent-edge/internal/connectivity"
	"github.com/tamzrod/vent-edge/internal/poller"
	"github.com/tamzrod/vent-edge/internal/status"
)

var (
	// ErrNotConnected: no live broker session, nothing was sent.
	ErrNotConnected = connectivity.ErrNotConnected

	// ErrInvalidReading: the reading failed the validity policy, nothing was sent.
	// It matches ErrNotConnected as well.
	ErrInvalidReading = fmt.Errorf("publisher: reading not valid: %w", ErrNotConnected)
)

// EncodeError wraps a serialization failure.
type EncodeError struct {
	Encoding string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("publisher: encode %s: %v", e.Encoding, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Sink is the delivery contract. connectivity.Manager satisfies it.
type Sink interface {
	State() status.Connection
	Publish(topic string, payload []byte) error
}

// Config is the minimal runtime config the publisher needs.
type Config struct {
	Topic    string
	DeviceID string
	Encoding string // json | cbor
}

// Publisher serializes readings onto the telemetry topic.
// It keeps no state: a dropped reading is superseded by the next one.
type Publisher struct {
	cfg    Config
	sink   Sink
	encode encoder
	log    *logrus.Entry
}

func New(cfg Config, sink Sink, log *logrus.Entry) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, errors.New("publisher: topic required")
	}
	enc, err := encoderFor(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}
	return &Publisher{cfg: cfg, sink: sink, encode: enc, log: log}, nil
}

// Publish sends one reading.
// Invalid readings and a missing session produce no outbound message.
// A publish failure is returned and never retried.
func (p *Publisher) Publish(r poller.Reading) error {
	if !r.Valid {
		return ErrInvalidReading
	}
	if !p.sink.State().Ready() {
		return ErrNotConnected
	}

	payload, err := p.encode(fields(p.cfg.DeviceID, r))
	if err != nil {
		return &EncodeError{Encoding: p.cfg.Encoding, Err: err}
	}

	if err := p.sink.Publish(p.cfg.Topic, payload); err != nil {
		p.log.WithField("topic", p.cfg.Topic).WithError(err).Warn("telemetry publish failed")
		return err
	}

	p.log.WithFields(logrus.Fields{
		"topic": p.cfg.Topic,
		"bytes": len(payload),
	}).Info("telemetry published")
	return nil
}
