package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

func TestDecodeRemote(t *testing.T) {
	payload := `[
		{"userId": 1, "id": 1, "title": "Life is short", "body": "Life"},
		{"title": 7, "body": "x"},
		{"title": "Also good", "id": "abc"}
	]`

	elems, err := DecodeRemote([]byte(payload))

	require.NoError(t, err)
	assert.Len(t, elems, 3, "a malformed element does not reject the payload")
}

func TestDecodeRemote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an array", `{"title":"x"}`},
		{"garbage", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRemote([]byte(tt.payload))

			require.ErrorIs(t, err, domain.ErrDecode)
		})
	}
}

func TestParseRemoteItem(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected domain.Quote
		wantErr  error
	}{
		{
			name:     "ignored members of any type",
			raw:      `{"userId": "u-1", "id": "abc", "title": "Also good", "body": "Life"}`,
			expected: domain.Quote{Text: "Also good", Category: "Life"},
		},
		{
			name:     "absent body",
			raw:      `{"title": "No body at all"}`,
			expected: domain.Quote{Text: "No body at all", Category: domain.DefaultCategory},
		},
		{name: "title of wrong type", raw: `{"title": 7, "body": "x"}`, wantErr: domain.ErrDecode},
		{name: "not an object", raw: `"just a string"`, wantErr: domain.ErrDecode},
		{name: "blank title", raw: `{"title": "", "body": "Humor"}`, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemoteItem(json.RawMessage(tt.raw))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTranslateRemoteItem(t *testing.T) {
	body := func(s string) *string { return &s }

	tests := []struct {
		name     string
		item     RemoteItem
		expected domain.Quote
		wantErr  bool
	}{
		{
			name:     "title and body",
			item:     RemoteItem{Title: "Life is short", Body: body("Life")},
			expected: domain.Quote{Text: "Life is short", Category: "Life"},
		},
		{
			name:     "empty body defaults",
			item:     RemoteItem{Title: "New one", Body: body("")},
			expected: domain.Quote{Text: "New one", Category: domain.DefaultCategory},
		},
		{
			name:     "absent body defaults",
			item:     RemoteItem{Title: "New one"},
			expected: domain.Quote{Text: "New one", Category: "General"},
		},
		{
			name:     "whitespace trimmed",
			item:     RemoteItem{Title: "  padded ", Body: body(" Humor\n")},
			expected: domain.Quote{Text: "padded", Category: "Humor"},
		},
		{
			name:    "blank title rejected",
			item:    RemoteItem{Title: "   ", Body: body("Life")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TranslateRemoteItem(tt.item)

			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
