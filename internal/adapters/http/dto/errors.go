// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NO_QUOTES", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries field-level messages for validation failures.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the requested resource was not found.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeNoQuotes indicates no quote matches the active filter.
	ErrorCodeNoQuotes = "NO_QUOTES"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeInvalidPayload indicates an import payload could not be decoded.
	ErrorCodeInvalidPayload = "INVALID_PAYLOAD"

	// ErrorCodeUnavailable indicates a remote source is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound, ErrorCodeNoQuotes:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeInvalidPayload, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable, ErrorCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var code, message string

	switch {
	case domain.IsNoneAvailable(err):
		code, message = ErrorCodeNoQuotes, "no quotes available"

	case domain.IsNotFound(err):
		code, message = ErrorCodeNotFound, err.Error()

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsDecode(err):
		code, message = ErrorCodeInvalidPayload, err.Error()

	case domain.IsTransport(err):
		code, message = ErrorCodeUnavailable, err.Error()

	default:
		code, message = ErrorCodeInternal, "an internal error occurred"
	}

	return HTTPStatusFromCode(code), NewErrorResponse(code, message)
}

// GetTraceID returns the active trace ID for the request, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the mapped error envelope for err. Internal errors are
// logged with full detail; the client only sees the generic message.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// RespondWithErrorCode writes an error envelope for an adapter-level failure
// that did not come from the domain.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
