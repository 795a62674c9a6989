// internal/status/constants.go
package status

// State is the lifecycle state of the network link or the broker session.
type State uint8

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// ---- HEALTH CODES ----

// HealthUnknown is the boot state, before the first poll cycle.
const HealthUnknown uint16 = 0

// HealthOK means the last cycle produced a valid reading that was delivered.
const HealthOK uint16 = 1

// HealthError means the last cycle produced an invalid reading.
const HealthError uint16 = 2

// HealthStale means the last reading was valid but could not be delivered.
const HealthStale uint16 = 3

// ---- LIMITS ----

// MaxSecondsInError is where the seconds-in-error counter saturates.
const MaxSecondsInError = 65535

var healthNames = [...]string{"unknown", "ok", "error", "stale"}

// HealthName returns a display name for a health code.
func HealthName(code uint16) string {
	if int(code) >= len(healthNames) {
		return "unknown"
	}
	return healthNames[code]
}
