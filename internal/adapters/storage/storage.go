// Package storage provides durable slot store adapters.
//
// Three backends implement ports.SlotStore:
//   - [FileSlots]: one JSON file per slot, replaced atomically via rename
//   - [SQLiteSlots]: a single key/value table in an embedded SQLite database
//   - [MemorySlots]: process-local map, for tests and ephemeral runs
package storage

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Store is a slot store that can also report its health.
type Store interface {
	ports.SlotStore
	ports.HealthChecker
}

// Open builds the slot store selected by cfg.Driver.
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.ResolvedPath()
	logger = logger.With(
		slog.String("component", "storage"),
		slog.String("driver", cfg.Driver),
	)

	var (
		store Store
		err   error
	)

	switch cfg.Driver {
	case "file":
		store, err = NewFileSlots(path)
	case "sqlite":
		store, err = OpenSQLite(path)
	case "memory":
		store = NewMemorySlots()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, err
	}

	logger.Info("slot store opened", slog.String("path", path))

	return store, nil
}
