package dto

import (
	"time"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// QuoteResponse is the wire form of a single quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{Text: q.Text, Category: q.Category}
}

// NewQuoteResponses converts a slice of domain quotes.
func NewQuoteResponses(qs []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(qs))
	for i, q := range qs {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// SelectionResponse is a quote plus its position in the store.
type SelectionResponse struct {
	Quote    QuoteResponse `json:"quote"`
	Position int           `json:"position"`
}

// NewSelectionResponse converts a domain selection.
func NewSelectionResponse(sel domain.Selection) SelectionResponse {
	return SelectionResponse{Quote: NewQuoteResponse(sel.Quote), Position: sel.Position}
}

// RandomQuoteRequest carries the optional one-off category override.
type RandomQuoteRequest struct {
	Category string `form:"category" validate:"omitempty,max=200"`
}

// CreateQuoteRequest is the body of POST /quotes.
type CreateQuoteRequest struct {
	Text     string `json:"text" validate:"required,notblank,max=2000"`
	Category string `json:"category" validate:"required,notblank,max=200"`
}

// SelectFilterRequest is the body of PUT /categories/filter.
type SelectFilterRequest struct {
	Category string `json:"category" validate:"required,notblank"`
}

// MutationResponse reports whether a mutation reached durable storage. The
// in-memory change is kept either way.
type MutationResponse struct {
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

// NewMutationResponse builds the persistence report for persistErr.
func NewMutationResponse(persistErr error) MutationResponse {
	if persistErr == nil {
		return MutationResponse{Persisted: true}
	}

	return MutationResponse{Warning: persistErr.Error()}
}

// CreateQuoteResponse is returned after a manual add.
type CreateQuoteResponse struct {
	Quote QuoteResponse `json:"quote"`
	MutationResponse
}

// ImportResponse is returned after an import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
	MutationResponse
}

// CategoriesResponse lists the category labels and the active filter.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Filter     string   `json:"filter"`
}

// FilterResponse reports the effective filter after a selection.
type FilterResponse struct {
	Filter string `json:"filter"`
	MutationResponse
}

// SourceReportResponse summarizes one remote source in a sync.
type SourceReportResponse struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// SyncResponse is the result of a manual reconcile.
type SyncResponse struct {
	CycleID    string                 `json:"cycleId,omitempty"`
	Outcome    string                 `json:"outcome"`
	Added      int                    `json:"added"`
	Duplicates int                    `json:"duplicates"`
	Skipped    int                    `json:"skipped"`
	Sources    []SourceReportResponse `json:"sources"`
	StartedAt  time.Time              `json:"startedAt"`
	DurationMS int64                  `json:"durationMs"`
	MutationResponse
}
