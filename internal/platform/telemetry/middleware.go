package telemetry

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-sync/internal/platform/telemetry"

	// HeaderTraceID echoes the active trace ID on every response.
	HeaderTraceID = "X-Trace-ID"

	// unmatchedRoute labels requests no route matched, keeping raw paths
	// out of metric attributes.
	unmatchedRoute = "unmatched"
)

// healthPaths are polled by orchestrators and are not traced.
var healthPaths = []string{"/-/live", "/-/ready"}

// HTTPMetrics holds HTTP server instruments.
type HTTPMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP server instruments on mp, or on the
// global meter provider when mp is nil.
func NewHTTPMetrics(mp metric.MeterProvider) (*HTTPMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// Middleware records HTTP server metrics on the global meter provider and
// echoes the trace ID. Install it after TracingMiddleware so a span is
// already in the context.
func Middleware() gin.HandlerFunc {
	m, err := NewHTTPMetrics(nil)
	if err != nil {
		otel.Handle(err)
	}

	return m.Middleware()
}

// Middleware returns the gin handler recording into m. A nil m only echoes
// the trace ID.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}

		if m != nil {
			m.inFlight.Add(ctx, 1, metric.WithAttributes(base...))
			defer m.inFlight.Add(ctx, -1, metric.WithAttributes(base...))
		}

		c.Next()

		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		if m == nil {
			return
		}

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
		m.requests.Add(ctx, 1, done)
	}
}

// TracingMiddleware starts a server span per request via otelgin. Health
// health checks are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !slices.Contains(healthPaths, r.URL.Path)
		}),
	)
}
