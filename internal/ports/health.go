package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// Slot stores and remote sources register themselves with the HealthRegistry
// at startup.
type HealthChecker interface {
	// Name returns a unique identifier for this health check.
	Name() string

	// Check performs the health check and returns an error if unhealthy.
	// Implementations should respect context cancellation and deadlines.
	Check(ctx context.Context) error
}

// OptionalChecker is a HealthChecker whose failure degrades the service
// without making it unready. Remote sources are optional: the store keeps
// serving local data while they are down.
type OptionalChecker interface {
	HealthChecker
	Optional() bool
}

// HealthRegistry aggregates health checks from multiple components.
type HealthRegistry interface {
	// Register adds a health checker to the registry.
	// Returns an error if a checker with the same name is already registered.
	Register(checker HealthChecker) error

	// CheckAll runs all registered health checks and returns aggregated results.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	// HealthStatusHealthy indicates all checks passed.
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusDegraded indicates only optional checks failed.
	HealthStatusDegraded HealthStatus = "degraded"

	// HealthStatusUnhealthy indicates a required check failed.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Optional bool          `json:"optional,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{
		checkers: make([]HealthChecker, 0),
	}
}

// Register adds a health checker to the registry.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every registered check concurrently and waits for all of them.
// A failing check never cancels its siblings. The overall status is unhealthy
// when a required check fails and degraded when only optional ones do.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := make([]HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group

	for i, checker := range checkers {
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(ctx)

			res := &CheckResult{
				Status:   HealthStatusHealthy,
				Optional: isOptional(checker),
				Duration: time.Since(start),
			}
			if err != nil {
				res.Status = HealthStatusUnhealthy
				res.Message = err.Error()
			}

			results[i] = res

			return nil
		})
	}

	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, checker := range checkers {
		res := results[i]
		out.Checks[checker.Name()] = res

		switch {
		case res.Status == HealthStatusHealthy:
		case !res.Optional:
			out.Status = HealthStatusUnhealthy
		case out.Status == HealthStatusHealthy:
			out.Status = HealthStatusDegraded
		}
	}

	return out
}

func isOptional(checker HealthChecker) bool {
	oc, ok := checker.(OptionalChecker)
	return ok && oc.Optional()
}
