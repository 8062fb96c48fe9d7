package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/quote-sync/internal/codec"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// errSnapshotUnread blocks writes while the in-memory sequence is a seed
// fallback standing in for a snapshot that exists but could not be read.
var errSnapshotUnread = errors.New("snapshot could not be read at load; not overwriting it")

// RecordStore is the ordered, append-only quote sequence and its durable
// snapshot. It is not safe for concurrent use; Library serializes access.
type RecordStore struct {
	slots  ports.SlotStore
	quotes []domain.Quote
	logger *slog.Logger

	// unread is set when Load hit a read failure. Persist refuses to write
	// until a later Load reads the slot.
	unread bool
}

// NewRecordStore creates an empty store backed by slots.
func NewRecordStore(slots ports.SlotStore, logger *slog.Logger) *RecordStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecordStore{
		slots:  slots,
		logger: logger.With(slog.String("component", "app.RecordStore")),
	}
}

// Load replaces the in-memory sequence with the persisted snapshot.
// An absent or malformed snapshot falls back to the seed set. A read
// failure also falls back to the seeds, is returned to the caller, and
// disables Persist until a later Load succeeds, so the seeds never replace
// a snapshot that may still be intact.
func (s *RecordStore) Load(ctx context.Context) ([]domain.Quote, error) {
	data, err := s.slots.Read(ctx, ports.SlotQuotes)
	s.unread = err != nil && !errors.Is(err, domain.ErrNotFound)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.InfoContext(ctx, "no snapshot found, using seed quotes")
		s.quotes = domain.SeedQuotes()

		return s.Quotes(), nil

	case err != nil:
		s.quotes = domain.SeedQuotes()

		return s.Quotes(), domain.NewPersistenceError("read", ports.SlotQuotes, err)
	}

	quotes, err := codec.DecodeSnapshot(data)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot is malformed, using seed quotes", slog.Any("error", err))
		s.quotes = domain.SeedQuotes()

		return s.Quotes(), nil
	}

	s.quotes = quotes

	return s.Quotes(), nil
}

// Append adds q to the end of the sequence. Duplicates are allowed.
func (s *RecordStore) Append(q domain.Quote) {
	s.quotes = append(s.quotes, q)
}

// AppendMany adds qs in order and returns how many were appended.
func (s *RecordStore) AppendMany(qs []domain.Quote) int {
	s.quotes = append(s.quotes, qs...)

	return len(qs)
}

// Persist overwrites the snapshot slot with the full sequence.
func (s *RecordStore) Persist(ctx context.Context) error {
	if s.unread {
		return domain.NewPersistenceError("write", ports.SlotQuotes, errSnapshotUnread)
	}

	data, err := codec.Encode(s.quotes)
	if err != nil {
		return domain.NewPersistenceError("encode", ports.SlotQuotes, err)
	}

	if err := s.slots.Write(ctx, ports.SlotQuotes, data); err != nil {
		return domain.NewPersistenceError("write", ports.SlotQuotes, fmt.Errorf("writing snapshot: %w", err))
	}

	return nil
}

// Quotes returns a copy of the sequence.
func (s *RecordStore) Quotes() []domain.Quote {
	return slices.Clone(s.quotes)
}

// View returns the live sequence without copying. Callers must not
// modify or retain it past the current critical section.
func (s *RecordStore) View() []domain.Quote {
	return s.quotes
}

// Writable reports whether Persist may overwrite the snapshot.
func (s *RecordStore) Writable() bool {
	return !s.unread
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	return len(s.quotes)
}
