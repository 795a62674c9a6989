// internal/status/snapshot.go
package status

import "time"

// Connection is the link and session state pair.
// Only the connectivity manager writes it.
type Connection struct {
	Link    State
	Session State
}

// Ready reports whether telemetry may be sent.
func (c Connection) Ready() bool {
	return c.Link == Connected && c.Session == Connected
}

// Schedule is the polling schedule owned by the scheduler.
type Schedule struct {
	AutoEnabled bool
	Interval    time.Duration
	LastPoll    time.Time
}

// Due reports whether an automatic poll should fire at now.
func (s Schedule) Due(now time.Time) bool {
	return s.AutoEnabled && now.Sub(s.LastPoll) >= s.Interval
}

// Snapshot is everything the status menu shows.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Device     string
	UptimeMs   int64
	Connection Connection
	Schedule   Schedule
	Health     Health
}
