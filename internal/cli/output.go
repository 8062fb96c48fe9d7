package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (no quotes, every source unreachable)
	ExitCommandError = 2 // Command error (bad config, unreadable file, storage unavailable)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Warnings go here so JSON on Writer stays parseable
}

// Emit writes v as indented JSON, or calls text in text mode.
func (f *OutputFormatter) Emit(v any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	text(f.Writer)
	return nil
}

// Warn reports a non-fatal problem.
func (f *OutputFormatter) Warn(format string, args ...any) {
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}

	fmt.Fprintf(w, "warning: "+format+"\n", args...)
}

// warnIfNotPersisted reports a mutation that stayed in memory only.
func (f *OutputFormatter) warnIfNotPersisted(err error) {
	if err != nil {
		f.Warn("change applied but not saved: %v", err)
	}
}

type quoteView struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func newQuoteView(q domain.Quote) quoteView {
	return quoteView{Text: q.Text, Category: q.Category}
}

type selectionView struct {
	Quote    quoteView `json:"quote"`
	Position int       `json:"position"`
}

func newSelectionView(sel domain.Selection) selectionView {
	return selectionView{Quote: newQuoteView(sel.Quote), Position: sel.Position}
}

func printQuote(w io.Writer, q domain.Quote) {
	fmt.Fprintf(w, "%q\n  -- %s\n", q.Text, q.Category)
}
