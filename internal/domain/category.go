package domain

// CategoryIndex is the set of distinct category labels present in a
// collection, kept in the order each label was first seen.
type CategoryIndex struct {
	labels []string
	known  map[string]struct{}
}

// RebuildIndex scans quotes front to back and returns a fresh index.
// Labels are compared by exact string equality.
func RebuildIndex(quotes []Quote) CategoryIndex {
	idx := CategoryIndex{
		labels: make([]string, 0),
		known:  make(map[string]struct{}),
	}

	for _, q := range quotes {
		if _, seen := idx.known[q.Category]; seen {
			continue
		}

		idx.known[q.Category] = struct{}{}
		idx.labels = append(idx.labels, q.Category)
	}

	return idx
}

// Labels returns a copy of the labels in first-seen order.
func (i CategoryIndex) Labels() []string {
	out := make([]string, len(i.labels))
	copy(out, i.labels)

	return out
}

// Contains reports whether label is present in the index.
func (i CategoryIndex) Contains(label string) bool {
	_, ok := i.known[label]
	return ok
}

// Len returns the number of distinct labels.
func (i CategoryIndex) Len() int {
	return len(i.labels)
}

// ResolveFilter returns requested when it is FilterAll or a label known to
// the index, and FilterAll otherwise. A stale persisted filter therefore
// never selects nothing forever.
func ResolveFilter(requested string, known CategoryIndex) string {
	if requested == FilterAll || known.Contains(requested) {
		return requested
	}

	return FilterAll
}
