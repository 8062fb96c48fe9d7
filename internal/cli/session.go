package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// session is the wiring one command invocation works against.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Store
	service *app.QuoteService
	out     *OutputFormatter
}

// openSession loads configuration, opens the slot store and restores the
// library. The caller must Close the session.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.LoadFrom(opts.ConfigDir, opts.Profile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	if opts.Driver != "" {
		cfg.Storage.Driver = opts.Driver
	}

	if opts.Path != "" {
		cfg.Storage.Path = opts.Path
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}

	// The rolling file keeps the configured level; only the terminal is quieted.
	fileLevel := cfg.Log.File.Level
	if fileLevel == "" {
		fileLevel = cfg.Log.Level
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			Level:      fileLevel,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, cmd.ErrOrStderr())

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening storage", err)
	}

	ctx := logging.WithContext(cmd.Context(), logger)

	lib := app.NewLibrary(app.LibraryConfig{Slots: store, Logger: logger})
	if err := lib.Load(ctx); err != nil {
		logger.Error("library restored with errors, snapshot writes disabled", slog.Any("error", err))
	}

	remotes, err := acl.NewRemoteSources(cfg.Sync.Sources, cfg.Client, logger)
	if err != nil {
		_ = store.Close()
		return nil, WrapExitError(ExitCommandError, "configuring sources", err)
	}

	sources := make([]ports.RemoteSource, len(remotes))
	for i, r := range remotes {
		sources[i] = r
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Library: lib,
		Reconciler: app.NewReconciler(app.ReconcilerConfig{
			Library:      lib,
			Sources:      sources,
			Interval:     cfg.Sync.Interval,
			FetchTimeout: cfg.Sync.FetchTimeout,
			Logger:       logger,
		}),
		Logger: logger,
	})

	cmd.SetContext(ctx)

	return &session{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: service,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}, nil
}

// Close releases the slot store.
func (s *session) Close() error {
	return s.store.Close()
}

// withSession runs fn against a freshly opened session.
func withSession(opts *RootOptions, fn func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Context() == nil {
			cmd.SetContext(context.Background())
		}

		s, err := openSession(cmd, opts)
		if err != nil {
			return err
		}

		defer func() {
			if closeErr := s.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("closing storage: %w", closeErr))
			}
		}()

		return fn(cmd.Context(), s, args)
	}
}
