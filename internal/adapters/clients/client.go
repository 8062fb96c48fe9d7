package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-sync/internal/adapters/clients"

	defaultTimeout = 10 * time.Second
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is the base URL for all requests (e.g., "https://jsonplaceholder.typicode.com").
	BaseURL string

	// ServiceName identifies the remote source for logging and tracing.
	ServiceName string

	// Timeout is the per-attempt request timeout.
	// Total wall-clock time may exceed this value due to retries and backoff.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Logger is an optional logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// ConfigFor builds the client configuration for one remote source.
func ConfigFor(src config.SourceConfig, cc config.ClientConfig, logger *slog.Logger) *Config {
	return &Config{
		BaseURL:     src.BaseURL,
		ServiceName: src.Name,
		Timeout:     cc.Timeout,
		Retry:       cc.Retry,
		Circuit:     cc.CircuitBreaker,
		Transport:   cc.Transport,
		Logger:      logger,
	}
}

// Client polls one remote quote source. Each fetch is traced as a single
// client span, retried with backoff on 429, 5xx and transport failures,
// and guarded by a circuit breaker so a dead source is not hit on every
// sync cycle. Request and correlation IDs from the context are forwarded.
type Client struct {
	http    *http.Client
	baseURL string
	source  string
	retry   retryPolicy
	breaker *CircuitBreaker
	tracer  trace.Tracer
	metrics *sourceMetrics
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("remote", cfg.ServiceName),
	)

	metrics, err := newSourceMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	breaker := NewCircuitBreaker(cfg.Circuit)
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		source:  cfg.ServiceName,
		retry:   newRetryPolicy(cfg.Retry),
		breaker: breaker,
		tracer:  otel.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()

	if tc.MaxIdleConns > 0 {
		t.MaxIdleConns = tc.MaxIdleConns
	}

	if tc.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = tc.MaxIdleConnsPerHost
	}

	if tc.IdleConnTimeout > 0 {
		t.IdleConnTimeout = tc.IdleConnTimeout
	}

	return t
}

// Get fetches BaseURL + path as JSON. A returned response may carry any
// non-retryable status; the caller decides what a 4xx means.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// Do sends a bodiless request through the breaker and retry loop.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("remote", c.source),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.metrics.record(ctx, c.source, 0, time.Since(start), resultCircuitOpen)
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "GET "+c.source,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.source),
		),
	)
	defer span.End()

	forwardIDs(ctx, req)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, attempts, err := c.send(ctx, req, logger)
	elapsed := time.Since(start)
	span.SetAttributes(attribute.Int("http.attempts", attempts))

	if err != nil {
		c.breaker.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.metrics.record(ctx, c.source, 0, elapsed, resultError)
		logger.WarnContext(ctx, "request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	c.metrics.record(ctx, c.source, resp.StatusCode, elapsed, statusResult(resp.StatusCode))
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", attempts),
		slog.Duration("duration", elapsed),
	)

	return resp, nil
}

// send runs the retry loop and reports how many attempts were made.
// Exhausted retries are wrapped in ErrMaxRetriesExceeded; cancellation
// during backoff is returned as the context error.
func (c *Client) send(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	var last *attemptError

	for attempt := range c.retry.cfg.MaxAttempts {
		if last != nil {
			wait := c.retry.delay(attempt, last.retryAfter)
			logger.DebugContext(ctx, "retrying request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
				slog.Any("error", last.err),
			)

			if err := sleep(ctx, wait); err != nil {
				return nil, attempt, err
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		last = classify(resp, err)
		if last == nil {
			return resp, attempt + 1, err
		}
	}

	return nil, c.retry.cfg.MaxAttempts, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, last.err)
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// ServiceName returns the remote source name the client was built for.
func (c *Client) ServiceName() string {
	return c.source
}

func forwardIDs(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}
}
