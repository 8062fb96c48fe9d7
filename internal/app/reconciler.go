package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

const (
	tracerName = "github.com/jsamuelsen/quote-sync/internal/app"

	// maxConcurrentFetches bounds how many sources are polled at once.
	maxConcurrentFetches = 4

	defaultSyncInterval = 30 * time.Second
)

// Outcome classifies a reconcile cycle.
type Outcome string

const (
	// OutcomeUpdated means at least one record was appended.
	OutcomeUpdated Outcome = "updated"

	// OutcomeNoChange means every fetched candidate was already present.
	OutcomeNoChange Outcome = "no_change"

	// OutcomeFetchFailed means no source produced a payload.
	OutcomeFetchFailed Outcome = "fetch_failed"

	// OutcomeSkipped means a previous cycle was still running.
	OutcomeSkipped Outcome = "skipped"
)

// SourceReport describes one source's contribution to a cycle.
type SourceReport struct {
	Source  string
	Fetched int
	Skipped int
	Err     error
}

// SyncResult is the outcome of one reconcile cycle.
type SyncResult struct {
	CycleID    string
	Outcome    Outcome
	Added      int
	Duplicates int
	Skipped    int
	Sources    []SourceReport
	PersistErr error
	StartedAt  time.Time
	Duration   time.Duration
}

// ReconcilerConfig contains the dependencies of a Reconciler.
type ReconcilerConfig struct {
	// Library receives merged quotes. Required.
	Library *Library

	// Sources are polled on every cycle.
	Sources []ports.RemoteSource

	// Interval between scheduled cycles. Defaults to 30s.
	Interval time.Duration

	// FetchTimeout bounds the fetch phase of a cycle. A source still
	// pending when it expires counts as failed. Zero means no bound.
	FetchTimeout time.Duration

	// Metrics records cycle outcomes. Optional.
	Metrics *telemetry.SyncMetrics

	// Logger is used by the scheduled loop. Defaults to slog.Default().
	Logger *slog.Logger
}

// Reconciler merges remote quotes into the Library additively.
// It never removes or edits existing records, and at most one cycle runs
// at a time: a cycle requested while another is in flight is skipped.
type Reconciler struct {
	library  *Library
	sources  []ports.RemoteSource
	interval time.Duration
	timeout  time.Duration
	metrics  *telemetry.SyncMetrics
	logger   *slog.Logger
	tracer   trace.Tracer
	running  atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler creates a reconciler. Panics if Library is nil.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.Library == nil {
		panic("Reconciler: Library is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		library:  cfg.Library,
		sources:  cfg.Sources,
		interval: interval,
		timeout:  cfg.FetchTimeout,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("component", "app.Reconciler")),
		tracer:   otel.Tracer(tracerName),
	}
}

// RunOnce performs one fetch-translate-merge cycle.
// Failures never escape: they are reported in the result.
func (r *Reconciler) RunOnce(ctx context.Context) SyncResult {
	if !r.running.CompareAndSwap(false, true) {
		logging.FromContext(ctx).DebugContext(ctx, "reconcile already in flight, skipping")
		r.metrics.RecordCycle(ctx, string(OutcomeSkipped), 0, 0)

		return SyncResult{Outcome: OutcomeSkipped}
	}
	defer r.running.Store(false)

	result := SyncResult{CycleID: uuid.NewString(), StartedAt: time.Now()}

	ctx = logging.WithCycleID(ctx, result.CycleID)
	logger := logging.FromContext(ctx)

	ctx, span := r.tracer.Start(ctx, "reconcile",
		trace.WithAttributes(
			attribute.String("sync.cycle_id", result.CycleID),
			attribute.Int("sync.sources", len(r.sources)),
		),
	)
	defer span.End()

	candidates, fetchedAny := r.fetchAll(ctx, &result)

	if len(r.sources) > 0 && !fetchedAny {
		result.Outcome = OutcomeFetchFailed
		span.SetStatus(codes.Error, "all sources failed")

		return r.finish(ctx, logger, span, result)
	}

	merge := r.library.MergeRemote(ctx, candidates)
	result.Added = merge.Added
	result.Duplicates = merge.Duplicates
	result.PersistErr = merge.PersistErr

	result.Outcome = OutcomeNoChange
	if merge.Added > 0 {
		result.Outcome = OutcomeUpdated
	}

	if merge.PersistErr != nil {
		span.RecordError(merge.PersistErr)
		logger.ErrorContext(ctx, "merged quotes could not be persisted",
			slog.Int("added", merge.Added),
			slog.Any("error", merge.PersistErr),
		)
	}

	return r.finish(ctx, logger, span, result)
}

// fetchAll polls every source and returns the translated candidates in
// source order. fetchedAny is false when every source failed.
func (r *Reconciler) fetchAll(ctx context.Context, result *SyncResult) ([]domain.Quote, bool) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	fns := make([]func(context.Context) (*ports.RemoteBatch, error), len(r.sources))
	for i, src := range r.sources {
		fns[i] = src.FetchQuotes
	}

	results := ParallelPartialLimit(ctx, maxConcurrentFetches, fns...)

	var (
		candidates []domain.Quote
		fetchedAny bool
	)

	logger := logging.FromContext(ctx)

	for i, res := range results {
		report := SourceReport{Source: r.sources[i].Name(), Err: res.Err}

		if res.Err != nil {
			logger.WarnContext(ctx, "remote fetch failed",
				slog.String("remote", report.Source),
				slog.Any("error", res.Err),
			)
		} else if res.Value != nil {
			fetchedAny = true
			report.Fetched = len(res.Value.Quotes)
			report.Skipped = res.Value.Skipped
			result.Skipped += res.Value.Skipped
			candidates = append(candidates, res.Value.Quotes...)
		}

		result.Sources = append(result.Sources, report)
	}

	return candidates, fetchedAny
}

func (r *Reconciler) finish(ctx context.Context, logger *slog.Logger, span trace.Span, result SyncResult) SyncResult {
	result.Duration = time.Since(result.StartedAt)

	span.SetAttributes(
		attribute.String("sync.outcome", string(result.Outcome)),
		attribute.Int("sync.added", result.Added),
	)

	r.metrics.RecordCycle(ctx, string(result.Outcome), result.Added, result.Skipped)

	logger.InfoContext(ctx, "reconcile finished",
		slog.String("outcome", string(result.Outcome)),
		slog.Int("added", result.Added),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("skipped_items", result.Skipped),
		slog.Duration("duration", result.Duration),
	)

	return result
}

// Start launches the scheduled loop. The first cycle runs one interval
// after Start. Calling Start on a running reconciler is a no-op.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(logging.WithContext(ctx, r.logger))
	r.cancel = cancel
	r.done = make(chan struct{})

	r.logger.InfoContext(ctx, "reconciler started",
		slog.Duration("interval", r.interval),
		slog.Int("sources", len(r.sources)),
	)

	go r.loop(ctx, r.done)
}

// Stop stops the loop and waits for an in-flight cycle to return.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	r.logger.Info("reconciler stopped")
}

// Interval returns the configured scheduling interval.
func (r *Reconciler) Interval() time.Duration {
	return r.interval
}

func (r *Reconciler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}
