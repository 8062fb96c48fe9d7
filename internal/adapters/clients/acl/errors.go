package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// maxErrorBodyBytes bounds how much of an error body is read for context.
const maxErrorBodyBytes = 4 << 10

// ErrorResponse is the error body some remote sources return.
// It supports both nested format (error.code/message) and flat format (code/message).
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail contains error information from a remote source.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetMessage returns the error message from either nested or top-level format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBodyBytes)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed fetch onto a domain.TransportError.
// Every failure of a remote source is a transport failure to the reconciler:
// the cycle degrades to "no change" whatever the cause.
func MapHTTPError(resp *http.Response, clientErr error, source string) error {
	if clientErr != nil {
		return mapClientError(clientErr, source)
	}

	if resp == nil {
		return domain.NewTransportError(source, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	reason := fmt.Sprintf("unexpected status %d", resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		reason = "rate limit exceeded"
	}

	if errResp := ParseErrorResponse(resp.Body); errResp != nil {
		reason = fmt.Sprintf("%s: %s", reason, errResp.GetMessage())
	}

	return domain.NewTransportError(source, reason)
}

// mapClientError keeps the client's own wording; clients.ErrMaxRetriesExceeded
// already prefixes the last attempt's error.
func mapClientError(err error, source string) error {
	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.NewTransportError(source, "circuit breaker open")
	}

	return domain.NewTransportError(source, err.Error())
}
