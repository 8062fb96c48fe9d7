package domain

import "math/rand/v2"

// RandomSource draws uniform integers in [0, n).
// Inject a deterministic source in tests to pin the chosen record.
type RandomSource interface {
	IntN(n int) int
}

// Selection is a quote chosen by the Selector together with its position in
// the unfiltered collection.
type Selection struct {
	Quote    Quote
	Position int
}

// Selector picks random quotes respecting a category filter.
type Selector struct {
	rand RandomSource
}

// NewSelector creates a selector. A nil source falls back to math/rand/v2.
func NewSelector(src RandomSource) *Selector {
	if src == nil {
		src = globalRand{}
	}

	return &Selector{rand: src}
}

// PickRandom returns a uniformly chosen quote whose category equals filter
// exactly, or any quote when filter is FilterAll. ErrNoneAvailable is
// returned when no quote qualifies.
func (s *Selector) PickRandom(quotes []Quote, filter string) (Selection, error) {
	// positions holds indexes into quotes so the absolute position survives filtering.
	positions := make([]int, 0, len(quotes))

	for i, q := range quotes {
		if filter == FilterAll || q.Category == filter {
			positions = append(positions, i)
		}
	}

	if len(positions) == 0 {
		return Selection{}, ErrNoneAvailable
	}

	pos := positions[s.rand.IntN(len(positions))]

	return Selection{Quote: quotes[pos], Position: pos}, nil
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n) //nolint:gosec // No need for crypto-grade randomness
}
