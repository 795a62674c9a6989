// internal/connectivity/errors.go
package connectivity

import "errors"

var (
	// ErrLinkDown means the network link is not up.
	// The caller repairs the link before trying the session again.
	ErrLinkDown = errors.New("connectivity: link down")

	// ErrNotConnected means no broker session is established.
	ErrNotConnected = errors.New("connectivity: session not connected")

	errTimeout = errors.New("connectivity: operation timed out")
)
