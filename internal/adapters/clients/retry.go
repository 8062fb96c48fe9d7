package clients

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// retryPolicy decides whether a failed attempt is retried and how long to
// wait before the next one.
type retryPolicy struct {
	cfg    config.RetryConfig
	jitter func() float64 // returns [0,1)
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	return retryPolicy{cfg: cfg, jitter: rand.Float64}
}

// delay returns the wait before attempt (1-based retries). A Retry-After
// header on the failed response takes precedence over the computed backoff;
// both are capped at MaxInterval.
func (p retryPolicy) delay(attempt int, retryAfter time.Duration) time.Duration {
	ceiling := float64(p.cfg.MaxInterval)

	if retryAfter > 0 {
		if ceiling > 0 && float64(retryAfter) > ceiling {
			return time.Duration(ceiling)
		}
		return retryAfter
	}

	backoff := float64(p.cfg.InitialInterval) * math.Pow(p.cfg.Multiplier, float64(attempt))
	if ceiling > 0 && backoff > ceiling {
		backoff = ceiling
	}

	// Symmetric jitter in [-JitterFactor, +JitterFactor).
	spread := p.jitter()*2 - 1
	backoff += backoff * p.cfg.JitterFactor * spread

	return time.Duration(backoff)
}

// attemptError is a failed attempt that may be retried.
type attemptError struct {
	err        error
	retryAfter time.Duration
}

func (e *attemptError) Error() string { return e.err.Error() }

func (e *attemptError) Unwrap() error { return e.err }

// classify inspects one attempt. It returns a non-nil *attemptError when the
// attempt should be retried; the response body is closed in that case.
// Rate limiting (429), 5xx and transport-level failures are retryable.
// Any other response, including 4xx, is an answer and is returned as-is.
func classify(resp *http.Response, err error) *attemptError {
	if err != nil {
		if isRetryableError(err) {
			return &attemptError{err: err}
		}
		return nil
	}

	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < http.StatusInternalServerError {
		return nil
	}

	_ = resp.Body.Close()

	return &attemptError{
		err:        fmt.Errorf("remote answered %d", resp.StatusCode),
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter reads the delay-seconds form of Retry-After. HTTP dates
// are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
