package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen blocks requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a limited number of trial requests through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Counts is a point-in-time view of the breaker counters.
type Counts struct {
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	InFlightTrials       int
}

// CircuitBreaker guards a remote source so that a dead endpoint is not
// hammered on every sync cycle.
//
// State transitions:
//   - Closed → Open: after MaxFailures consecutive failures
//   - Open → HalfOpen: once Timeout has passed since the last failure
//   - HalfOpen → Closed: after HalfOpenLimit consecutive successful trial requests
//   - HalfOpen → Open: on any failed trial
type CircuitBreaker struct {
	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	cfg      config.CircuitBreakerConfig
	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 1
	}

	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = 1
	}

	return &CircuitBreaker{
		state: StateClosed,
		cfg:   cfg,
		now:   time.Now,
	}
}

// OnStateChange registers a callback invoked after every transition.
// The callback runs without the breaker lock held.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = fn
}

// Allow reports whether a request may be sent now.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		notify  func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true

	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.cfg.Timeout {
			notify = cb.setState(StateHalfOpen)
			cb.counts.InFlightTrials = 1
			allowed = true
		}

	case StateHalfOpen:
		if cb.counts.InFlightTrials < cb.cfg.HalfOpenLimit {
			cb.counts.InFlightTrials++
			allowed = true
		}
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}

	return allowed
}

// RecordSuccess records a request that reached the remote and got an answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.counts.ConsecutiveFailures = 0

	case StateHalfOpen:
		cb.counts.InFlightTrials = max(cb.counts.InFlightTrials-1, 0)
		cb.counts.ConsecutiveSuccesses++

		if cb.counts.ConsecutiveSuccesses >= cb.cfg.HalfOpenLimit {
			notify = cb.setState(StateClosed)
		}
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// RecordFailure records a request that could not be completed.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var notify func()

	switch cb.state {
	case StateClosed:
		cb.counts.ConsecutiveFailures++

		if cb.counts.ConsecutiveFailures >= cb.cfg.MaxFailures {
			notify = cb.setState(StateOpen)
		}

	case StateHalfOpen:
		notify = cb.setState(StateOpen)

	case StateOpen:
		cb.openedAt = cb.now()
	}

	cb.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Counts returns a copy of the current counters.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

// setState moves to next, resets the counters and returns the deferred
// notification, if any. Must be called with the lock held.
func (cb *CircuitBreaker) setState(next State) func() {
	if cb.state == next {
		return nil
	}

	prev := cb.state
	cb.state = next
	cb.counts = Counts{}

	if next == StateOpen {
		cb.openedAt = cb.now()
	}

	if cb.onChange == nil {
		return nil
	}

	fn := cb.onChange

	return func() { fn(prev, next) }
}
