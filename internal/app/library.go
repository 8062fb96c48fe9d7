// Package app contains application services that orchestrate use cases.
// The Library owns the quote collection and its derived state; the
// QuoteService and Reconciler drive it, and the HTTP and CLI adapters sit
// on top of those.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/codec"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// noSelection marks an empty selection pointer.
const noSelection = -1

// Library is the single owner of the quote store, the category index, the
// active filter and the selection pointer. Every operation holds one mutex
// for its whole duration so no two operations interleave.
type Library struct {
	mu       sync.Mutex
	slots    ports.SlotStore
	store    *RecordStore
	selector *domain.Selector
	index    domain.CategoryIndex
	filter   string
	pointer  int
	logger   *slog.Logger
}

// LibraryConfig contains the dependencies of a Library.
type LibraryConfig struct {
	// Slots is the durable slot store. Required.
	Slots ports.SlotStore

	// Random drives quote selection. Defaults to math/rand/v2.
	Random domain.RandomSource

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// MergeResult reports what a remote merge did to the store.
type MergeResult struct {
	// Added is the number of records appended.
	Added int

	// Duplicates is the number of candidates already present.
	Duplicates int

	// PersistErr is set when the merge was kept in memory but the
	// snapshot could not be written.
	PersistErr error
}

// NewLibrary creates an empty library. Call Load before use.
// Panics if Slots is nil.
func NewLibrary(cfg LibraryConfig) *Library {
	if cfg.Slots == nil {
		panic("Library: Slots is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Library{
		slots:    cfg.Slots,
		store:    NewRecordStore(cfg.Slots, logger),
		selector: domain.NewSelector(cfg.Random),
		filter:   domain.FilterAll,
		pointer:  noSelection,
		logger:   logger.With(slog.String("component", "app.Library")),
	}
}

// Load restores the store, the filter preference and the selection pointer.
// It never fails hard: missing or unreadable state falls back to defaults,
// and the first read error, if any, is returned for logging.
func (l *Library) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	quotes, loadErr := l.store.Load(ctx)
	l.index = domain.RebuildIndex(quotes)

	l.filter = domain.FilterAll
	if raw, err := l.slots.Read(ctx, ports.SlotFilter); err == nil {
		l.filter = domain.ResolveFilter(strings.TrimSpace(string(raw)), l.index)
	} else if !errors.Is(err, domain.ErrNotFound) {
		l.logger.WarnContext(ctx, "failed to read filter preference", slog.Any("error", err))
	}

	l.pointer = noSelection
	if raw, err := l.slots.Read(ctx, ports.SlotLastViewed); err == nil {
		if pos, convErr := strconv.Atoi(strings.TrimSpace(string(raw))); convErr == nil && pos >= 0 && pos < len(quotes) {
			l.pointer = pos
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		l.logger.WarnContext(ctx, "failed to read selection pointer", slog.Any("error", err))
	}

	l.logger.InfoContext(ctx, "library loaded",
		slog.Int("quotes", len(quotes)),
		slog.Int("categories", l.index.Len()),
		slog.String("filter", l.filter),
	)

	return loadErr
}

// Name identifies the library in the health registry.
func (l *Library) Name() string {
	return "snapshot"
}

// Check fails while the snapshot is write-protected after a failed read.
func (l *Library) Check(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.store.Writable() {
		return errSnapshotUnread
	}

	return nil
}

// AddQuote validates, appends and persists one quote. No duplicate check is
// made. On a PersistenceError the quote stays in memory and is returned.
func (l *Library) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	q, err := domain.NewQuote(text, category)
	if err != nil {
		return domain.Quote{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.Append(q)
	l.index = domain.RebuildIndex(l.store.View())

	return q, l.store.Persist(ctx)
}

// Import decodes payload and appends every record without dedup.
// A decode failure leaves the store untouched. On a PersistenceError the
// records stay in memory and the count is still returned.
func (l *Library) Import(ctx context.Context, payload []byte) (int, error) {
	quotes, err := codec.Decode(payload)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.store.AppendMany(quotes)
	l.index = domain.RebuildIndex(l.store.View())

	return n, l.store.Persist(ctx)
}

// Export encodes the whole store in the export format.
func (l *Library) Export() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return codec.Encode(l.store.View())
}

// PickRandom selects a quote under the active filter, or under category
// when it is non-empty. An unknown category resolves to "all". The
// selection pointer is updated and persisted; a pointer write failure is
// logged and does not fail the pick.
func (l *Library) PickRandom(ctx context.Context, category string) (domain.Selection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filter := l.filter
	if category != "" {
		filter = domain.ResolveFilter(category, l.index)
	}

	sel, err := l.selector.PickRandom(l.store.View(), filter)
	if err != nil {
		return domain.Selection{}, err
	}

	l.pointer = sel.Position

	if err := l.slots.Write(ctx, ports.SlotLastViewed, []byte(strconv.Itoa(sel.Position))); err != nil {
		l.logger.WarnContext(ctx, "failed to persist selection pointer",
			slog.Any("error", domain.NewPersistenceError("write", ports.SlotLastViewed, err)),
		)
	}

	return sel, nil
}

// Current returns the record named by the selection pointer.
func (l *Library) Current() (domain.Selection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pointer == noSelection || l.pointer >= l.store.Len() {
		return domain.Selection{}, domain.NewNotFoundError("selection", ports.SlotLastViewed)
	}

	return domain.Selection{Quote: l.store.View()[l.pointer], Position: l.pointer}, nil
}

// SelectFilter makes category the active filter and persists it. An
// unknown category resolves to "all". The effective filter is returned
// even when persisting fails.
func (l *Library) SelectFilter(ctx context.Context, category string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = domain.ResolveFilter(strings.TrimSpace(category), l.index)

	if err := l.slots.Write(ctx, ports.SlotFilter, []byte(l.filter)); err != nil {
		return l.filter, domain.NewPersistenceError("write", ports.SlotFilter, err)
	}

	return l.filter, nil
}

// Categories returns the index labels and the active filter.
func (l *Library) Categories() ([]string, string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.index.Labels(), l.filter
}

// Quotes returns a copy of the store in insertion order.
func (l *Library) Quotes() []domain.Quote {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Quotes()
}

// Len returns the number of stored quotes.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Len()
}

// Stats returns the quote and category counts in one consistent read.
func (l *Library) Stats() (quotes, categories int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Len(), l.index.Len()
}

// MergeRemote appends the candidates that are not already in the store,
// comparing exact (text, category) pairs against the store as it is now.
// Candidates repeated within the batch are appended once. Existing records
// are never touched. Nothing is persisted or rebuilt when nothing is new.
func (l *Library) MergeRemote(ctx context.Context, candidates []domain.Quote) MergeResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.store.View()

	seen := make(map[domain.QuoteKey]struct{}, len(current)+len(candidates))
	for _, q := range current {
		seen[q.Key()] = struct{}{}
	}

	var staged []domain.Quote

	for _, c := range candidates {
		if _, dup := seen[c.Key()]; dup {
			continue
		}

		seen[c.Key()] = struct{}{}
		staged = append(staged, c)
	}

	result := MergeResult{Duplicates: len(candidates) - len(staged)}

	if len(staged) == 0 {
		return result
	}

	result.Added = l.store.AppendMany(staged)
	l.index = domain.RebuildIndex(l.store.View())
	result.PersistErr = l.store.Persist(ctx)

	return result
}
