// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrTransport, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// Slot names used for durable state.
const (
	// SlotQuotes holds the whole-collection snapshot.
	SlotQuotes = "quotes"

	// SlotLastViewed holds the selection pointer as a decimal integer.
	SlotLastViewed = "lastViewedQuote"

	// SlotFilter holds the explicitly selected category filter.
	SlotFilter = "selectedCategory"
)

// SlotStore is a durable key/value store of named byte slots.
// Each Write replaces the slot as a whole; a reader never observes a
// partially written value.
type SlotStore interface {
	// Read returns the slot contents.
	// Returns domain.ErrNotFound if the slot has never been written.
	Read(ctx context.Context, slot string) ([]byte, error)

	// Write atomically overwrites the slot.
	Write(ctx context.Context, slot string, data []byte) error

	// Close releases any underlying resources.
	Close() error
}

// RemoteBatch is the translated result of one fetch from a remote source.
type RemoteBatch struct {
	// Source is the name of the remote source that produced the batch.
	Source string

	// Quotes are the items that translated cleanly, in payload order.
	Quotes []domain.Quote

	// Skipped counts payload items dropped because they failed translation.
	Skipped int
}

// RemoteSource fetches candidate quotes from an external system.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map transport failures to domain.TransportError
//   - Drop malformed items individually rather than failing the batch
type RemoteSource interface {
	// Name identifies the source in logs and sync results.
	Name() string

	// FetchQuotes retrieves and translates the current remote payload.
	// Returns domain.ErrTransport if the source is unreachable, or
	// domain.ErrDecode if the payload as a whole cannot be parsed.
	FetchQuotes(ctx context.Context) (*RemoteBatch, error)
}
