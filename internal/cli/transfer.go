package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// DefaultExportFile is the artifact name written by export.
const DefaultExportFile = "quotes.json"

type exportView struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

type importView struct {
	Imported int  `json:"imported"`
	Total    int  `json:"total"`
	Saved    bool `json:"saved"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every quote to a JSON file",
		Long: `Write every quote to a JSON file.

The file can be loaded back with import. Use -o - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			data, err := s.service.Export(ctx)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := s.out.Writer.Write(append(data, '\n'))
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // export is meant to be shared
				return WrapExitError(ExitCommandError, "writing export", err)
			}

			count := len(s.service.ListQuotes(ctx))

			return s.out.Emit(exportView{File: output, Count: count}, func(w io.Writer) {
				fmt.Fprintf(w, "exported %d quotes to %s\n", count, output)
			})
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", DefaultExportFile, "destination file")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append every quote from an exported JSON file",
		Long: `Append every quote from an exported JSON file.

Quotes are appended as-is, so importing the same file twice keeps both
copies. A file that fails to decode changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "reading import file", err)
			}

			n, err := s.service.Import(ctx, payload)
			if domain.IsDecode(err) {
				return WrapExitError(ExitCommandError, "import rejected", err)
			}
			if err != nil && !domain.IsPersistence(err) {
				return err
			}

			s.out.warnIfNotPersisted(err)

			total := len(s.service.ListQuotes(ctx))

			return s.out.Emit(importView{Imported: n, Total: total, Saved: err == nil}, func(w io.Writer) {
				fmt.Fprintf(w, "imported %d quotes (%d total)\n", n, total)
			})
		}),
	}
}
