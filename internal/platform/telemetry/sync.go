package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const syncInstrumentationName = "github.com/jsamuelsen/quote-sync/internal/app"

// SyncMetrics records reconcile cycle outcomes.
type SyncMetrics struct {
	cycles  metric.Int64Counter
	added   metric.Int64Counter
	skipped metric.Int64Counter
}

// NewSyncMetrics creates the reconcile instruments on the given meter
// provider, or the global one when mp is nil.
func NewSyncMetrics(mp metric.MeterProvider) (*SyncMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(syncInstrumentationName)

	cycles, err := meter.Int64Counter(
		"quotesync.reconcile.cycles",
		metric.WithDescription("Reconcile cycles by outcome"),
	)
	if err != nil {
		return nil, err
	}

	added, err := meter.Int64Counter(
		"quotesync.reconcile.added",
		metric.WithDescription("Quotes appended by reconciliation"),
	)
	if err != nil {
		return nil, err
	}

	skipped, err := meter.Int64Counter(
		"quotesync.reconcile.skipped_items",
		metric.WithDescription("Remote items dropped because they failed translation"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{cycles: cycles, added: added, skipped: skipped}, nil
}

// RecordCycle counts one finished cycle.
func (m *SyncMetrics) RecordCycle(ctx context.Context, outcome string, added, skipped int) {
	if m == nil {
		return
	}

	outcomeAttr := metric.WithAttributes(attribute.String("outcome", outcome))

	m.cycles.Add(ctx, 1, outcomeAttr)

	if added > 0 {
		m.added.Add(ctx, int64(added))
	}

	if skipped > 0 {
		m.skipped.Add(ctx, int64(skipped))
	}
}
