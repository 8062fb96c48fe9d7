package codec

import (
	"encoding/json"
	"strings"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

const remoteSource = "remote payload"

// RemoteItem is one element of the remote source payload. Only title and
// body are read; userId, id and any other member are ignored whatever their
// type.
type RemoteItem struct {
	Title string  `json:"title"`
	Body  *string `json:"body,omitempty"`
}

// DecodeRemote checks that a remote payload is a JSON array and returns its
// raw elements. Elements are decoded one at a time by ParseRemoteItem so a
// malformed element fails alone.
func DecodeRemote(payload []byte) ([]json.RawMessage, error) {
	return splitArray(remoteSource, payload)
}

// DecodeRemoteItem decodes one raw element. An element of the wrong shape
// is a DecodeError carrying no index; callers that track positions add it.
func DecodeRemoteItem(raw json.RawMessage) (RemoteItem, error) {
	var item RemoteItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return RemoteItem{}, domain.NewDecodeError(remoteSource, err)
	}

	return item, nil
}

// ParseRemoteItem decodes and translates one raw element.
func ParseRemoteItem(raw json.RawMessage) (domain.Quote, error) {
	item, err := DecodeRemoteItem(raw)
	if err != nil {
		return domain.Quote{}, err
	}

	return TranslateRemoteItem(item)
}

// TranslateRemoteItem maps a remote item onto a quote: title becomes the
// text and body the category. A missing or blank body files the quote under
// domain.DefaultCategory; a blank title is a ValidationError. Both fields
// are trimmed, matching manual adds, so padded remote text dedups against
// the stored quote.
func TranslateRemoteItem(item RemoteItem) (domain.Quote, error) {
	category := domain.DefaultCategory
	if item.Body != nil {
		if body := strings.TrimSpace(*item.Body); body != "" {
			category = body
		}
	}

	text := strings.TrimSpace(item.Title)
	if text == "" {
		return domain.Quote{}, domain.NewValidationError("title", "must not be empty")
	}

	return domain.Quote{Text: text, Category: category}, nil
}
