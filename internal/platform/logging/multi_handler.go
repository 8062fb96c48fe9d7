package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans each record out to several handlers, each filtering by
// its own level. The console and the rolling file use it so the file can
// keep detail the terminal hides.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a handler that writes to every given handler.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any branch wants records at level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, branch := range h.handlers {
		if branch.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a copy of r to every enabled branch. All branches run even
// when one fails; the errors are joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, branch := range h.handlers {
		if !branch.Enabled(ctx, r.Level) {
			continue
		}

		if err := branch.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// WithAttrs returns a MultiHandler whose branches all carry attrs.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(branch slog.Handler) slog.Handler { return branch.WithAttrs(attrs) })
}

// WithGroup returns a MultiHandler whose branches all open group name.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(branch slog.Handler) slog.Handler { return branch.WithGroup(name) })
}

func (h *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	next := make([]slog.Handler, len(h.handlers))
	for i, branch := range h.handlers {
		next[i] = fn(branch)
	}

	return &MultiHandler{handlers: next}
}
