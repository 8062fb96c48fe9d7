package acl

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *RemoteSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "placeholder",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	})
	require.NoError(t, err)

	return NewRemoteSource(RemoteSourceConfig{Client: client, Path: "/posts"})
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestRemoteSource_FetchQuotes(t *testing.T) {
	source := newTestSource(t, jsonHandler(http.StatusOK, `[
		{"userId": 1, "id": 1, "title": "Life is short", "body": "Life"},
		{"userId": 1, "id": 2, "title": " New one ", "body": ""},
		{"userId": 1, "id": 3, "title": "", "body": "Humor"},
		{"userId": 1, "id": 4, "title": "No body at all"}
	]`))

	batch, err := source.FetchQuotes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "placeholder", batch.Source)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, []domain.Quote{
		{Text: "Life is short", Category: "Life"},
		{Text: "New one", Category: "General"},
		{Text: "No body at all", Category: "General"},
	}, batch.Quotes)
}

func TestRemoteSource_FetchQuotes_SkipsMalformedElements(t *testing.T) {
	source := newTestSource(t, jsonHandler(http.StatusOK, `[
		{"title": "Good one", "body": "Life"},
		{"title": 7, "body": "x"},
		"not an object",
		{"title": "Also good", "id": "abc"}
	]`))

	batch, err := source.FetchQuotes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Skipped)
	assert.Equal(t, []domain.Quote{
		{Text: "Good one", Category: "Life"},
		{Text: "Also good", Category: domain.DefaultCategory},
	}, batch.Quotes)
}

func TestRemoteSource_FetchQuotes_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{"server error", jsonHandler(http.StatusInternalServerError, `{}`), domain.ErrTransport},
		{"not found", jsonHandler(http.StatusNotFound, `{"message":"gone"}`), domain.ErrTransport},
		{"not an array", jsonHandler(http.StatusOK, `{"title":"x"}`), domain.ErrDecode},
		{"not json", jsonHandler(http.StatusOK, `<html>`), domain.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newTestSource(t, tt.handler)

			batch, err := source.FetchQuotes(context.Background())

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, batch)
		})
	}
}

func TestRemoteSource_LogsSkippedItemsWithContextLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithCycleID(ctx, "cycle-1")

	source := newTestSource(t, jsonHandler(http.StatusOK, `[{"title":""}]`))

	batch, err := source.FetchQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Skipped)

	out := buf.String()
	assert.Contains(t, out, "skipping remote item")
	assert.Contains(t, out, `"sync_cycle":"cycle-1"`)
	assert.Contains(t, out, `"remote":"placeholder"`)
}

func TestRemoteSource_HealthChecker(t *testing.T) {
	healthy := newTestSource(t, jsonHandler(http.StatusOK, `[]`)).HealthChecker()
	assert.Equal(t, "remote:placeholder", healthy.Name())
	require.Implements(t, (*ports.OptionalChecker)(nil), healthy)
	assert.NoError(t, healthy.Check(context.Background()))

	unhealthy := newTestSource(t, jsonHandler(http.StatusServiceUnavailable, `[]`)).HealthChecker()
	assert.Error(t, unhealthy.Check(context.Background()))
}

func TestNewRemoteSource_RequiresClient(t *testing.T) {
	assert.Panics(t, func() { NewRemoteSource(RemoteSourceConfig{}) })
}

func TestNewRemoteSources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		_, _ = w.Write([]byte(`[{"title":"From config","body":"Ops"}]`))
	}))
	t.Cleanup(server.Close)

	cc := config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}

	sources, err := NewRemoteSources([]config.SourceConfig{
		{Name: "first", BaseURL: server.URL, Path: "/posts"},
		{Name: "second", BaseURL: server.URL, Path: "/posts"},
	}, cc, nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "first", sources[0].Name())
	assert.Equal(t, "second", sources[1].Name())

	batch, err := sources[1].FetchQuotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Quote{{Text: "From config", Category: "Ops"}}, batch.Quotes)
}
