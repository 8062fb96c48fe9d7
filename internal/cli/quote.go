package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// NewRandomCommand creates the random command.
func NewRandomCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random quote from the active category",
		Long: `Show a random quote from the active category.

--category overrides the saved filter for this call only. An unknown
category falls back to all quotes.`,
		Args: cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			sel, err := s.service.RandomQuote(ctx, category)
			if domain.IsNoneAvailable(err) {
				return NewExitError(ExitFailure, "no quotes available")
			}
			if err != nil {
				return err
			}

			return s.out.Emit(newSelectionView(sel), func(w io.Writer) {
				printQuote(w, sel.Quote)
			})
		}),
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "pick from this category only")

	return cmd
}

// NewCurrentCommand creates the current command.
func NewCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the last quote picked",
		Args:  cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			sel, err := s.service.CurrentQuote(ctx)
			if domain.IsNotFound(err) {
				return NewExitError(ExitFailure, "no quote has been picked yet")
			}
			if err != nil {
				return err
			}

			return s.out.Emit(newSelectionView(sel), func(w io.Writer) {
				printQuote(w, sel.Quote)
			})
		}),
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text> <category>",
		Short: "Add a quote",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, args []string) error {
			q, err := s.service.AddQuote(ctx, args[0], args[1])
			if domain.IsValidation(err) {
				return WrapExitError(ExitCommandError, "quote rejected", err)
			}
			if err != nil && !domain.IsPersistence(err) {
				return err
			}

			s.out.warnIfNotPersisted(err)

			return s.out.Emit(newQuoteView(q), func(w io.Writer) {
				fmt.Fprintln(w, "added:")
				printQuote(w, q)
			})
		}),
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every quote in insertion order",
		Args:  cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			quotes := s.service.ListQuotes(ctx)

			views := make([]quoteView, len(quotes))
			for i, q := range quotes {
				views[i] = newQuoteView(q)
			}

			return s.out.Emit(views, func(w io.Writer) {
				for i, q := range quotes {
					fmt.Fprintf(w, "%3d  [%s] %s\n", i, q.Category, q.Text)
				}
			})
		}),
	}
}
