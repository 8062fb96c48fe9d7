//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/jsamuelsen/quote-sync/internal/adapters/http"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// newAPI serves the full router over lib with a reconciler polling remoteURL.
func newAPI(t *testing.T, lib *app.Library, remoteURL string) (*httptest.Server, *app.Reconciler) {
	t.Helper()

	r := newReconciler(t, lib, config.SourceConfig{Name: "posts", BaseURL: remoteURL, Path: "/posts"})

	svc := app.NewQuoteService(app.QuoteServiceConfig{Library: lib, Reconciler: r, Logger: discardLogger()})

	srv := httpadapter.New(&config.ServerConfig{MaxRequestSize: 1 << 20}, discardLogger())
	httpadapter.SetupRouter(srv.Engine(), httpadapter.RouterConfig{
		Logger:        discardLogger(),
		ServiceName:   "quote-sync-integration",
		HealthHandler: handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{Version: "test"}, nil),
		QuoteHandler:  handlers.NewQuoteHandler(svc),
		SyncHandler:   handlers.NewSyncHandler(svc),
		Timeout:       httpadapter.DefaultRequestTimeout,
	})

	api := httptest.NewServer(srv.Engine())
	t.Cleanup(api.Close)

	return api, r
}

// TestConcurrent_AddsDuringReconcile interleaves manual adds, random picks
// and manual syncs with the scheduled loop, then checks no write was lost
// and the remote batch landed exactly once.
func TestConcurrent_AddsDuringReconcile(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Millisecond)
		_, _ = w.Write([]byte(`[{"title":"Remote A","body":"Remote"},{"title":"Remote B","body":"Remote"}]`))
	}))
	t.Cleanup(remote.Close)

	lib, store := openLibrary(t, config.StorageConfig{Driver: "memory"})
	t.Cleanup(func() { _ = store.Close() })

	seeded := lib.Len()

	api, r := newAPI(t, lib, remote.URL)
	r.Start(context.Background())
	t.Cleanup(r.Stop)

	const writers = 8
	const perWriter = 10

	g, ctx := errgroup.WithContext(context.Background())

	for w := range writers {
		g.Go(func() error {
			for i := range perWriter {
				body := fmt.Sprintf(`{"text":"writer %d quote %d","category":"Load"}`, w, i)

				req, err := http.NewRequestWithContext(ctx, http.MethodPost, api.URL+"/api/v1/quotes", strings.NewReader(body))
				if err != nil {
					return err
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return err
				}
				resp.Body.Close()

				if resp.StatusCode != http.StatusCreated {
					return fmt.Errorf("add returned %d", resp.StatusCode)
				}
			}
			return nil
		})
	}

	var syncMu sync.Mutex
	outcomes := map[string]int{}

	for range 4 {
		g.Go(func() error {
			for range 5 {
				req, err := http.NewRequestWithContext(ctx, http.MethodPost, api.URL+"/api/v1/sync", nil)
				if err != nil {
					return err
				}

				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return err
				}
				resp.Body.Close()

				syncMu.Lock()
				outcomes[resp.Status]++
				syncMu.Unlock()

				req, err = http.NewRequestWithContext(ctx, http.MethodGet, api.URL+"/api/v1/quotes/random", nil)
				if err != nil {
					return err
				}

				resp, err = http.DefaultClient.Do(req)
				if err != nil {
					return err
				}
				resp.Body.Close()
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())

	r.Stop()

	assert.Equal(t, seeded+writers*perWriter+2, lib.Len())

	remoteCount := 0
	for _, q := range lib.Quotes() {
		if q.Category == "Remote" {
			remoteCount++
		}
	}
	assert.Equal(t, 2, remoteCount, "remote records merged exactly once")

	for status := range outcomes {
		assert.Contains(t, []string{"200 OK", "409 Conflict"}, status)
	}

	sel, err := lib.PickRandom(context.Background(), "Load")
	require.NoError(t, err)
	assert.Equal(t, "Load", sel.Quote.Category)
}
