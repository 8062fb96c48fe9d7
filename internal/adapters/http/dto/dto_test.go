package dto

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func withSpan(c *gin.Context, traceID string) {
	tid, _ := trace.TraceIDFromHex(traceID)
	sid, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid})
	c.Request = c.Request.WithContext(trace.ContextWithSpanContext(c.Request.Context(), sc))
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	got := NewErrorResponseWithDetails(ErrorCodeValidation, "bad", map[string]string{"text": "required"})

	assert.Equal(t, &ErrorResponse{Error: ErrorDetail{
		Code:    ErrorCodeValidation,
		Message: "bad",
		Details: map[string]string{"text": "required"},
	}}, got)

	assert.Same(t, got, got.WithTraceID("abc"))
	assert.Equal(t, "abc", got.TraceID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeNoQuotes, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeInvalidPayload, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusServiceUnavailable},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "none available",
			err:         domain.ErrNoneAvailable,
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNoQuotes,
			wantMessage: "no quotes available",
		},
		{
			name:        "not found",
			err:         domain.NewNotFoundError("selection", "lastViewedQuote"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "selection",
		},
		{
			name:        "validation with field",
			err:         domain.NewValidationError("text", "must not be empty"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "text",
			wantDetails: map[string]string{"text": "must not be empty"},
		},
		{
			name:        "decode",
			err:         domain.NewDecodeError("import", errors.New("not an array")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeInvalidPayload,
			wantMessage: "not an array",
		},
		{
			name:        "transport",
			err:         domain.NewTransportError("posts", "connection refused"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "posts",
		},
		{
			name:        "unknown error hides detail",
			err:         errors.New("secret internals"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

func TestMapDomainError_Nil(t *testing.T) {
	status, resp := MapDomainError(nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestGetTraceID(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")
	assert.Empty(t, GetTraceID(c))

	withSpan(c, "0af7651916cd43dd8448eb211c80319c")
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", GetTraceID(c))
}

func TestHandleError(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", "")
	withSpan(c, "0af7651916cd43dd8448eb211c80319c")

	HandleError(c, domain.ErrNoneAvailable)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeNoQuotes, resp.Error.Code)
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", resp.TraceID)
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", "")

	AbortWithErrorCode(c, ErrorCodeTimeout, "request timeout exceeded")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeTimeout)
}

func TestBindAndValidate_CreateQuoteRequest(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     error
		wantDetails map[string]string
	}{
		{
			name: "valid",
			body: `{"text":"Carpe diem","category":"Latin"}`,
		},
		{
			name:    "malformed json",
			body:    `{"text":`,
			wantErr: ErrBinding,
		},
		{
			name:        "missing category",
			body:        `{"text":"Carpe diem"}`,
			wantErr:     ErrValidation,
			wantDetails: map[string]string{"category": "this field is required"},
		},
		{
			name:        "blank text",
			body:        `{"text":"   ","category":"Latin"}`,
			wantErr:     ErrValidation,
			wantDetails: map[string]string{"text": "must not be blank"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/", tt.body)

			var req CreateQuoteRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, CreateQuoteRequest{Text: "Carpe diem", Category: "Latin"}, req)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)

			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, ValidationErrors(err))
			}
		})
	}
}

func TestRespondWithBindError(t *testing.T) {
	t.Run("validation details", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"category":"x"}`)

		var req CreateQuoteRequest
		RespondWithBindError(c, BindAndValidate(c, &req))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "text")
	})

	t.Run("binding failure", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `not json`)

		var req CreateQuoteRequest
		RespondWithBindError(c, BindAndValidate(c, &req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrorCodeBadRequest)
	})
}

func TestBindQueryAndValidate_Pagination(t *testing.T) {
	tests := []struct {
		query   string
		wantErr bool
	}{
		{query: "", wantErr: false},
		{query: "?limit=10&cursor=abc", wantErr: false},
		{query: "?limit=150", wantErr: true},
		{query: "?limit=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/quotes"+tt.query, "")

			var req PaginationRequest
			err := BindQueryAndValidate(c, &req)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, ValidationErrors(err), "limit")

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestMinMaxMessage(t *testing.T) {
	type sized struct {
		Text string `json:"text" validate:"max=3"`
		N    int    `json:"n" validate:"min=5"`
	}

	details := ValidationErrors(Validate(sized{Text: "toolong", N: 1}))

	assert.Equal(t, map[string]string{
		"text": "must be at most 3 characters",
		"n":    "must be at least 5",
	}, details)
}

func TestPaginationRequest_GetLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, (&PaginationRequest{}).GetLimit())
	assert.Equal(t, 7, (&PaginationRequest{Limit: 7}).GetLimit())
	assert.Equal(t, MaxLimit, (&PaginationRequest{Limit: 500}).GetLimit())
}

func TestPaginationRequest_Offset(t *testing.T) {
	offset, err := (&PaginationRequest{}).Offset()
	require.NoError(t, err)
	assert.Zero(t, offset)

	offset, err = (&PaginationRequest{Cursor: EncodeCursor(&CursorData{Position: 40})}).Offset()
	require.NoError(t, err)
	assert.Equal(t, 40, offset)

	_, err = (&PaginationRequest{Cursor: "%%%"}).Offset()
	require.ErrorIs(t, err, ErrInvalidCursor)

	_, err = (&PaginationRequest{Cursor: EncodeCursor(&CursorData{Position: -1})}).Offset()
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	first := Paginate(items, 0, 2)
	assert.Equal(t, []int{0, 1}, first.Items)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.Total)

	offset, err := DecodeCursor(first.NextCursor)
	require.NoError(t, err)

	last := Paginate(items, offset.Position+2, 2)
	assert.Equal(t, []int{4}, last.Items)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextCursor)

	beyond := Paginate(items, 99, 2)
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.HasMore)
}

func TestEncodeCursor_Nil(t *testing.T) {
	assert.Empty(t, EncodeCursor(nil))
}

func TestNewMutationResponse(t *testing.T) {
	assert.Equal(t, MutationResponse{Persisted: true}, NewMutationResponse(nil))

	got := NewMutationResponse(domain.NewPersistenceError("write", "quotes", errors.New("disk full")))
	assert.False(t, got.Persisted)
	assert.Contains(t, got.Warning, "disk full")
}

func TestNewSelectionResponse(t *testing.T) {
	got := NewSelectionResponse(domain.Selection{
		Quote:    domain.Quote{Text: "a", Category: "b"},
		Position: 3,
	})

	assert.Equal(t, SelectionResponse{Quote: QuoteResponse{Text: "a", Category: "b"}, Position: 3}, got)
	assert.Equal(t, []QuoteResponse{}, NewQuoteResponses(nil))
}
