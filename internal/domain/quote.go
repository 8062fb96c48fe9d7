// Package domain contains core business entities and rules.
package domain

import "strings"

// FilterAll is the category filter sentinel that matches every quote.
const FilterAll = "all"

// DefaultCategory is assigned to remote quotes that arrive without a category.
const DefaultCategory = "General"

// Quote is a single quotation and the category it is filed under.
// Two quotes are the same record when both Text and Category match exactly;
// there is no separate identifier.
type Quote struct {
	// Text is the quotation itself.
	Text string

	// Category is the label used for filtering.
	Category string
}

// QuoteKey is the identity of a quote for deduplication.
type QuoteKey struct {
	Text     string
	Category string
}

// Key returns the dedup identity of the quote.
func (q Quote) Key() QuoteKey {
	return QuoteKey{Text: q.Text, Category: q.Category}
}

// NewQuote trims the inputs and validates that neither is empty.
func NewQuote(text, category string) (Quote, error) {
	q := Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}

	if err := q.Validate(); err != nil {
		return Quote{}, err
	}

	return q, nil
}

// Validate reports a ValidationError when text or category is empty.
func (q Quote) Validate() error {
	if q.Text == "" {
		return NewValidationError("text", "must not be empty")
	}

	if q.Category == "" {
		return NewValidationError("category", "must not be empty")
	}

	return nil
}

// SeedQuotes returns the collection used when nothing has been persisted yet.
// A fresh slice is returned on every call.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "The only limit to our realization of tomorrow is our doubts of today.", Category: "Motivation"},
		{Text: "Life is what happens when you're busy making other plans.", Category: "Life"},
		{Text: "Do not take life too seriously. You will never get out of it alive.", Category: "Humor"},
	}
}
