package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// QuoteService is the use-case surface shared by the HTTP handlers and the
// CLI. It adds request-scoped logging around the Library and Reconciler.
type QuoteService struct {
	library    *Library
	reconciler *Reconciler
	logger     *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Library    *Library
	Reconciler *Reconciler
	Logger     *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Library or Reconciler is nil. Defaults logger to slog.Default().
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Library == nil {
		panic("QuoteService: Library is required")
	}

	if cfg.Reconciler == nil {
		panic("QuoteService: Reconciler is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		library:    cfg.Library,
		reconciler: cfg.Reconciler,
		logger:     logger.With(slog.String("component", "app.QuoteService")),
	}
}

// RandomQuote picks a quote under the active filter, or under category
// when given.
func (s *QuoteService) RandomQuote(ctx context.Context, category string) (domain.Selection, error) {
	logger := logging.FromContext(ctx)

	sel, err := s.library.PickRandom(ctx, category)
	if err != nil {
		logger.InfoContext(ctx, "no quote to show",
			slog.String("category", category),
			slog.Any("error", err),
		)

		return domain.Selection{}, err
	}

	logger.DebugContext(ctx, "picked random quote",
		slog.Int("position", sel.Position),
		slog.String("category", sel.Quote.Category),
	)

	return sel, nil
}

// CurrentQuote returns the last displayed quote.
func (s *QuoteService) CurrentQuote(ctx context.Context) (domain.Selection, error) {
	sel, err := s.library.Current()
	if err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "no current selection")
	}

	return sel, err
}

// AddQuote adds a manually entered quote. A PersistenceError means the
// quote was added but not saved.
func (s *QuoteService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	logger := logging.FromContext(ctx)

	q, err := s.library.AddQuote(ctx, text, category)

	switch {
	case domain.IsValidation(err):
		logger.InfoContext(ctx, "rejected quote", slog.Any("error", err))
	case err != nil:
		logger.ErrorContext(ctx, "quote added but not persisted", slog.Any("error", err))
	default:
		logger.InfoContext(ctx, "quote added", slog.String("category", q.Category))
	}

	return q, err
}

// ListQuotes returns every quote in insertion order.
func (s *QuoteService) ListQuotes(_ context.Context) []domain.Quote {
	return s.library.Quotes()
}

// Categories returns the known labels and the active filter.
func (s *QuoteService) Categories(_ context.Context) ([]string, string) {
	return s.library.Categories()
}

// SelectCategory sets and persists the active filter.
func (s *QuoteService) SelectCategory(ctx context.Context, category string) (string, error) {
	effective, err := s.library.SelectFilter(ctx, category)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "filter selected but not persisted", slog.Any("error", err))
	}

	if effective != category {
		logging.FromContext(ctx).InfoContext(ctx, "unknown category, showing all",
			slog.String("requested", category),
		)
	}

	return effective, err
}

// Export returns the whole collection in the export format.
func (s *QuoteService) Export(ctx context.Context) ([]byte, error) {
	data, err := s.library.Export()
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "export failed", slog.Any("error", err))
	}

	return data, err
}

// Import appends every quote in payload.
func (s *QuoteService) Import(ctx context.Context, payload []byte) (int, error) {
	logger := logging.FromContext(ctx)

	n, err := s.library.Import(ctx, payload)

	switch {
	case domain.IsDecode(err):
		logger.WarnContext(ctx, "import rejected", slog.Any("error", err))
	case err != nil:
		logger.ErrorContext(ctx, "imported but not persisted", slog.Int("count", n), slog.Any("error", err))
	default:
		logger.InfoContext(ctx, "quotes imported", slog.Int("count", n))
	}

	return n, err
}

// Sync runs one reconcile cycle now.
func (s *QuoteService) Sync(ctx context.Context) SyncResult {
	s.logger.DebugContext(ctx, "manual sync requested")

	return s.reconciler.RunOnce(ctx)
}
