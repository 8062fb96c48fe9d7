package acl

import (
	"fmt"
	"io"
)

// maxPayloadBytes bounds a remote payload. Anything larger is rejected
// rather than decoded.
const maxPayloadBytes = 8 << 20

// Translator converts one external DTO into a domain value.
// It returns a domain error when the external data is unusable.
type Translator[External any, Domain any] func(ext External) (Domain, error)

// ItemError records why one element of a batch was dropped.
type ItemError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying translation error.
func (e ItemError) Unwrap() error {
	return e.Err
}

// TranslateEach applies translate to every item, keeping the ones that
// succeed in input order. Failed items are reported individually and never
// abort the batch.
func TranslateEach[E any, D any](items []E, translate Translator[E, D]) ([]D, []ItemError) {
	result := make([]D, 0, len(items))

	var failed []ItemError

	for i, item := range items {
		translated, err := translate(item)
		if err != nil {
			failed = append(failed, ItemError{Index: i, Err: err})
			continue
		}

		result = append(result, translated)
	}

	return result, failed
}

// ReadPayload reads a response body up to maxPayloadBytes and closes it.
func ReadPayload(body io.ReadCloser) ([]byte, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if len(payload) > maxPayloadBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxPayloadBytes)
	}

	return payload, nil
}
