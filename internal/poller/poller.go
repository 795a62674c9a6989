// internal/poller/poller.go
package poller

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/vent-edge/internal/status"
)

// MinValidCount is the success count a reading must exceed to be valid.
const MinValidCount = 8

// Client abstracts the field bus reads the poller needs.
// fieldbus.Client satisfies it.
type Client interface {
	ReadScaled(addr uint16) (float64, error)
	ReadRaw(addr uint16) (uint16, error)
}

// Poller reads a fixed register map, one transaction per register.
type Poller struct {
	regs   []RegisterSpec
	client Client
	clock  *status.Clock
	log    *logrus.Entry
}

// New creates a poller over an immutable register map.
func New(regs []RegisterSpec, client Client, clock *status.Clock, log *logrus.Entry) (*Poller, error) {
	if len(regs) == 0 {
		return nil, errors.New("poller: at least one register required")
	}
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if clock == nil {
		clock = status.NewClock()
	}
	return &Poller{regs: regs, client: client, clock: clock, log: log}, nil
}

// Registers returns the register map in poll order.
func (p *Poller) Registers() []RegisterSpec {
	return p.regs
}

// Poll performs exactly one poll cycle.
// A failed register keeps its sentinel and the cycle continues.
// Degraded cycles are returned with Valid=false.
func (p *Poller) Poll() Reading {
	r := Reading{
		Timestamp: p.clock.UptimeMs(),
		At:        p.clock.Now(),
		Samples:   make([]Sample, 0, len(p.regs)),
	}

	for _, spec := range p.regs {
		s := p.read(spec)
		if s.OK || spec.Tally == TallyAlways {
			r.SuccessCount++
		}
		r.Samples = append(r.Samples, s)
	}

	r.Valid = r.SuccessCount > MinValidCount

	entry := p.log.WithFields(logrus.Fields{
		"ok":    r.SuccessCount,
		"total": len(p.regs),
	})
	if r.Valid {
		entry.Info("poll cycle complete")
	} else {
		entry.Warn("poll cycle invalid")
	}
	return r
}

func (p *Poller) read(spec RegisterSpec) Sample {
	s := Sample{Spec: spec, Value: sentinel(spec.Kind)}

	var err error
	switch spec.Kind {
	case KindScaled:
		var v float64
		if v, err = p.client.ReadScaled(spec.Address); err == nil {
			s.Value, s.OK = v, true
		}
	case KindRaw:
		var raw uint16
		if raw, err = p.client.ReadRaw(spec.Address); err == nil {
			s.Raw, s.Value, s.OK = raw, float64(raw), true
		}
	}

	if err != nil {
		p.log.WithFields(logrus.Fields{
			"register": spec.Address,
			"field":    spec.Field,
		}).WithError(err).Warn("register read failed")
	}
	return s
}
