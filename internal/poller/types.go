// internal/poller/types.go
package poller

import (
	"math"
	"time"
)

// Kind selects how a register's raw value is decoded.
type Kind uint8

const (
	KindScaled Kind = iota // tenths fixed-point, float
	KindRaw                // unsigned 16-bit integer
)

// MetricType is the birth certificate type name for the kind.
func (k Kind) MetricType() string {
	if k == KindRaw {
		return "Int16"
	}
	return "Float"
}

// Tally decides when a register counts toward the validity threshold.
type Tally uint8

const (
	TallyOnSuccess Tally = iota
	TallyAlways
)

// RegisterSpec describes one device register.
// Immutable; the device map is a fixed ordered slice of these.
type RegisterSpec struct {
	Address uint16
	Kind    Kind
	Field   string // telemetry field name
	Metric  string // birth metric name
	Tally   Tally
}

// Sample is the outcome of one register transaction.
type Sample struct {
	Spec RegisterSpec

	// Value is NaN for a failed scaled read and 0 for a failed raw read.
	Value float64
	Raw   uint16
	OK    bool
}

// Reading is one poll cycle's result.
// Samples are in register map order.
type Reading struct {
	Timestamp    int64 // agent uptime, ms
	At           time.Time
	Samples      []Sample
	SuccessCount int
	Valid        bool
}

// Lookup returns the sample for a telemetry field.
func (r Reading) Lookup(field string) (Sample, bool) {
	for _, s := range r.Samples {
		if s.Spec.Field == field {
			return s, true
		}
	}
	return Sample{}, false
}

// Failed counts the register transactions that did not succeed.
func (r Reading) Failed() int {
	n := 0
	for _, s := range r.Samples {
		if !s.OK {
			n++
		}
	}
	return n
}

func sentinel(k Kind) float64 {
	if k == KindScaled {
		return math.NaN()
	}
	return 0
}
