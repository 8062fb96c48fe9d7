// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// metricsNamespace prefixes the Prometheus library gauges.
const metricsNamespace = "quotesync"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			Level:      cfg.Log.File.Level,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the slot store
	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	// 7. Restore the library. An unreadable snapshot keeps the service
	// unready and its writes blocked.
	library := app.NewLibrary(app.LibraryConfig{Slots: store, Logger: logger})
	if err := library.Load(ctx); err != nil {
		logger.Error("library restored with errors, snapshot writes disabled", slog.Any("error", err))
	}

	if err := healthRegistry.Register(library); err != nil {
		return fmt.Errorf("registering library health check: %w", err)
	}

	// 8. Create remote source adapters (ACL pattern)
	remotes, err := acl.NewRemoteSources(cfg.Sync.Sources, cfg.Client, logger)
	if err != nil {
		return fmt.Errorf("creating remote sources: %w", err)
	}

	sources := make([]ports.RemoteSource, 0, len(remotes))

	for _, src := range remotes {
		if err := healthRegistry.Register(src.HealthChecker()); err != nil {
			return fmt.Errorf("registering source %q health check: %w", src.Name(), err)
		}

		sources = append(sources, src)
	}

	// 9. Create the reconciler and quote service (application layer)
	syncMetrics, err := telemetry.NewSyncMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("creating sync metrics: %w", err)
	}

	reconciler := app.NewReconciler(app.ReconcilerConfig{
		Library:      library,
		Sources:      sources,
		Interval:     cfg.Sync.Interval,
		FetchTimeout: cfg.Sync.FetchTimeout,
		Metrics:      syncMetrics,
		Logger:       logger,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Library:    library,
		Reconciler: reconciler,
		Logger:     logger,
	})

	prometheus.MustRegister(telemetry.NewLibraryCollector(metricsNamespace, library))

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	syncHandler := handlers.NewSyncHandler(quoteService)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		HealthHandler: healthHandler,
		QuoteHandler:  quoteHandler,
		SyncHandler:   syncHandler,
		Timeout:       http.DefaultRequestTimeout,
	}
	http.SetupRouter(server.Engine(), routerCfg)

	// 13. Start the reconcile loop
	if cfg.Sync.Enabled {
		reconciler.Start(ctx)
		defer reconciler.Stop()

		logger.Info("reconciler started",
			slog.Int("sources", len(sources)),
			slog.Duration("interval", reconciler.Interval()),
		)
	}

	// 14. Serve until SIGINT or SIGTERM, then drain
	return server.Run(ctx)
}
