package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

type categoriesView struct {
	Categories []string `json:"categories"`
	Filter     string   `json:"filter"`
}

// NewCategoriesCommand creates the categories command and its select
// subcommand.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and the active filter",
		Args:  cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			labels, filter := s.service.Categories(ctx)

			return s.out.Emit(categoriesView{Categories: labels, Filter: filter}, func(w io.Writer) {
				printCategories(w, labels, filter)
			})
		}),
	}

	cmd.AddCommand(newSelectCategoryCommand(rootOpts))

	return cmd
}

func newSelectCategoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <category>",
		Short: "Save the category random picks are drawn from",
		Long: `Save the category random picks are drawn from.

Use "all" to clear the filter. An unknown category falls back to "all".`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, args []string) error {
			filter, err := s.service.SelectCategory(ctx, args[0])
			if err != nil && !domain.IsPersistence(err) {
				return err
			}

			s.out.warnIfNotPersisted(err)

			labels, _ := s.service.Categories(ctx)

			return s.out.Emit(categoriesView{Categories: labels, Filter: filter}, func(w io.Writer) {
				printCategories(w, labels, filter)
			})
		}),
	}
}

func printCategories(w io.Writer, labels []string, filter string) {
	mark := func(label string) string {
		if label == filter {
			return "*"
		}
		return " "
	}

	fmt.Fprintf(w, "%s %s\n", mark(domain.FilterAll), domain.FilterAll)
	for _, label := range labels {
		fmt.Fprintf(w, "%s %s\n", mark(label), label)
	}
}
