package acl

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// NewRemoteSources builds one instrumented client and adapter per configured
// source, in configuration order.
func NewRemoteSources(sources []config.SourceConfig, cc config.ClientConfig, logger *slog.Logger) ([]*RemoteSource, error) {
	out := make([]*RemoteSource, 0, len(sources))

	for _, src := range sources {
		client, err := clients.New(clients.ConfigFor(src, cc, logger))
		if err != nil {
			return nil, fmt.Errorf("creating client for source %q: %w", src.Name, err)
		}

		out = append(out, NewRemoteSource(RemoteSourceConfig{
			Client: client,
			Path:   src.Path,
		}))
	}

	return out, nil
}
