package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// ErrInvalidCursor is returned when cursor decoding fails.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset decodes the cursor into a store position. An empty cursor is the
// first page.
func (p *PaginationRequest) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	data, err := DecodeCursor(p.Cursor)
	if err != nil {
		return 0, err
	}

	return data.Position, nil
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// NextCursor is the cursor for the next page, empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`

	// Total is the size of the whole collection.
	Total int `json:"total"`
}

// Paginate slices all from offset, returning at most limit items. The
// store is append-only, so a position cursor stays valid across requests.
func Paginate[T any](all []T, offset, limit int) *PaginatedResponse[T] {
	offset = max(0, min(offset, len(all)))
	end := min(offset+limit, len(all))

	resp := &PaginatedResponse[T]{
		Items: all[offset:end],
		Total: len(all),
	}

	if end < len(all) {
		resp.HasMore = true
		resp.NextCursor = EncodeCursor(&CursorData{Position: end})
	}

	return resp
}

// CursorData contains the data encoded in a pagination cursor.
type CursorData struct {
	// Position is the store index of the first item on the page.
	Position int `json:"p"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to cursor data.
func DecodeCursor(encoded string) (*CursorData, error) {
	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData

	if err := json.Unmarshal(jsonBytes, &data); err != nil || data.Position < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
