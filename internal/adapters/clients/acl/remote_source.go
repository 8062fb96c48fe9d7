package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/codec"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// RemoteSourceConfig contains configuration for a remote source adapter.
type RemoteSourceConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should point at the remote host.
	Client *clients.Client

	// Path is the resource path polled on every cycle (e.g., "/posts").
	Path string
}

// RemoteSource implements ports.RemoteSource over a JSON endpoint that
// returns an array of {title, body} items.
// It is the only place the remote item shape is known; everything past
// FetchQuotes sees domain quotes. Logging uses the logger carried in the
// request context so entries share the caller's sync cycle ID.
type RemoteSource struct {
	client *clients.Client
	path   string
}

var _ ports.RemoteSource = (*RemoteSource)(nil)

// NewRemoteSource creates a new remote source adapter.
// Panics if Client is nil.
func NewRemoteSource(cfg RemoteSourceConfig) *RemoteSource {
	if cfg.Client == nil {
		panic("RemoteSource: Client is required")
	}

	path := cfg.Path
	if path == "" {
		path = "/"
	}

	return &RemoteSource{
		client: cfg.Client,
		path:   path,
	}
}

// Name returns the configured source name.
func (s *RemoteSource) Name() string {
	return s.client.ServiceName()
}

// FetchQuotes fetches the payload and translates every item.
// Only a payload that is not a JSON array fails the fetch. Items that fail
// to decode or translate are skipped and counted.
func (s *RemoteSource) FetchQuotes(ctx context.Context) (*ports.RemoteBatch, error) {
	logger := logging.FromContext(ctx).With(slog.String("remote", s.Name()))
	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", s.path))

	resp, err := s.client.Get(ctx, s.path)
	if err != nil {
		return nil, MapHTTPError(nil, err, s.Name())
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, s.Name())
	}

	payload, err := ReadPayload(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(s.Name(), err.Error())
	}

	logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", s.path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(payload)),
	)

	items, err := codec.DecodeRemote(payload)
	if err != nil {
		return nil, err
	}

	quotes, failed := TranslateEach(items, codec.ParseRemoteItem)

	for _, f := range failed {
		logger.WarnContext(ctx, "skipping remote item",
			slog.Int("index", f.Index),
			slog.Any("error", f.Err),
		)
	}

	for _, q := range quotes {
		logger.Log(ctx, logging.LevelTrace, "translated remote item",
			slog.String("category", q.Category),
		)
	}

	logger.DebugContext(ctx, "fetched remote quotes",
		slog.Int("items", len(items)),
		slog.Int("translated", len(quotes)),
		slog.Int("skipped", len(failed)),
	)

	return &ports.RemoteBatch{
		Source:  s.Name(),
		Quotes:  quotes,
		Skipped: len(failed),
	}, nil
}

// HealthChecker returns a checker registered as "remote:<name>".
func (s *RemoteSource) HealthChecker() ports.HealthChecker {
	return sourceHealth{source: s}
}

type sourceHealth struct {
	source *RemoteSource
}

func (h sourceHealth) Name() string {
	return "remote:" + h.source.Name()
}

// Optional marks remote sources as non-critical for readiness.
func (sourceHealth) Optional() bool { return true }

// Check reports whether the source answers with a 2xx.
func (h sourceHealth) Check(ctx context.Context) error {
	resp, err := h.source.client.Get(ctx, h.source.path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("remote source returned status %d", resp.StatusCode)
	}

	return nil
}
