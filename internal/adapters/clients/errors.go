// Package clients provides the resilient HTTP client used to poll remote
// quote sources.
package clients

import "errors"

// Client errors are infrastructure failures. The acl package translates
// them into domain.TransportError before they reach the reconciler.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and the
	// request was never sent.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once every retry
	// has been used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
