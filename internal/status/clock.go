// internal/status/clock.go
package status

import "time"

// Clock reports wall time and agent uptime.
// Telemetry timestamps are uptime milliseconds.
type Clock struct {
	Start time.Time
	Now   func() time.Time
}

func NewClock() *Clock {
	return &Clock{Start: time.Now(), Now: time.Now}
}

// UptimeMs returns milliseconds since Start.
func (c *Clock) UptimeMs() int64 {
	return c.Now().Sub(c.Start).Milliseconds()
}
