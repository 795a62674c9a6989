// internal/status/health.go
package status

import "time"

// Health is device-level truth derived from poll cycles.
type Health struct {
	Code uint16

	// Failed is the number of register transactions that failed
	// in the last cycle.
	Failed int

	// SecondsInError saturates at MaxSecondsInError.
	SecondsInError int

	errorSince time.Time
}

// Observe folds one poll cycle outcome into the health state.
//
// valid:     the reading passed the validity policy
// delivered: the reading was published
func (h *Health) Observe(valid, delivered bool, failed int, now time.Time) {
	h.Failed = failed

	switch {
	case !valid:
		h.Code = HealthError
	case !delivered:
		h.Code = HealthStale
	default:
		// Reset on recovery.
		h.Code = HealthOK
		h.SecondsInError = 0
		h.errorSince = time.Time{}
		return
	}

	if h.errorSince.IsZero() {
		h.errorSince = now
	}
	secs := int(now.Sub(h.errorSince) / time.Second)
	if secs > MaxSecondsInError {
		secs = MaxSecondsInError
	}
	h.SecondsInError = secs
}
