package clients

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Fetch results recorded on the source request metrics.
const (
	resultCircuitOpen = "circuit_open"
	resultError       = "error"
)

// sourceMetrics records one measurement per logical fetch, after retries.
type sourceMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

func newSourceMetrics(meter metric.Meter) (*sourceMetrics, error) {
	duration, err := meter.Float64Histogram(
		"quotesync.source.request.duration",
		metric.WithDescription("Duration of remote source fetches, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter(
		"quotesync.source.requests",
		metric.WithDescription("Remote source fetches by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &sourceMetrics{duration: duration, requests: requests}, nil
}

// statusResult buckets a status code as "2xx", "4xx" and so on.
func statusResult(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func (m *sourceMetrics) record(ctx context.Context, source string, status int, elapsed time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	m.duration.Record(ctx, elapsed.Seconds(), opt)
	m.requests.Add(ctx, 1, opt)
}
