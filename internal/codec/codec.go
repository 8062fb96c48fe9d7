// Package codec converts quote collections to and from their JSON forms:
// the export/snapshot array and the remote source payload.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

const indent = "  "

// record is the wire shape of one exported quote. Field order is text, category.
type record struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// partialRecord distinguishes a missing field from an empty one.
type partialRecord struct {
	Text     *string `json:"text"`
	Category *string `json:"category"`
}

var (
	errNotArray        = errors.New("top-level value is not an array")
	errMissingText     = errors.New(`missing "text"`)
	errMissingCategory = errors.New(`missing "category"`)
)

// Encode renders quotes as a JSON array indented with two spaces.
// An empty or nil collection encodes as [].
func Encode(quotes []domain.Quote) ([]byte, error) {
	records := make([]record, len(quotes))
	for i, q := range quotes {
		records[i] = record(q)
	}

	out, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	return out, nil
}

// Decode parses an exported array back into quotes.
// The payload must be a JSON array; every element must carry a non-empty
// text and category. The first offending element is reported by index.
func Decode(payload []byte) ([]domain.Quote, error) {
	return decode("import", payload)
}

// DecodeSnapshot is Decode with errors labelled for the durable snapshot.
func DecodeSnapshot(payload []byte) ([]domain.Quote, error) {
	return decode("snapshot", payload)
}

func decode(source string, payload []byte) ([]domain.Quote, error) {
	elems, err := splitArray(source, payload)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(elems))

	for i, raw := range elems {
		var rec partialRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, domain.NewElementDecodeError(source, i, err)
		}

		switch {
		case rec.Text == nil:
			return nil, domain.NewElementDecodeError(source, i, errMissingText)
		case rec.Category == nil:
			return nil, domain.NewElementDecodeError(source, i, errMissingCategory)
		}

		q := domain.Quote{Text: *rec.Text, Category: *rec.Category}
		if err := q.Validate(); err != nil {
			return nil, domain.NewElementDecodeError(source, i, err)
		}

		quotes = append(quotes, q)
	}

	return quotes, nil
}

// splitArray checks the top-level value is an array and returns its raw elements.
func splitArray(source string, payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, domain.NewDecodeError(source, errors.New("payload is not valid JSON"))
		}

		return nil, domain.NewDecodeError(source, errNotArray)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, domain.NewDecodeError(source, err)
	}

	return elems, nil
}
