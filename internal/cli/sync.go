package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/app"
)

type sourceView struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

type syncView struct {
	CycleID    string       `json:"cycleId"`
	Outcome    string       `json:"outcome"`
	Added      int          `json:"added"`
	Duplicates int          `json:"duplicates"`
	Skipped    int          `json:"skipped"`
	Sources    []sourceView `json:"sources"`
	Saved      bool         `json:"saved"`
}

func newSyncView(res app.SyncResult) syncView {
	v := syncView{
		CycleID:    res.CycleID,
		Outcome:    string(res.Outcome),
		Added:      res.Added,
		Duplicates: res.Duplicates,
		Skipped:    res.Skipped,
		Sources:    make([]sourceView, len(res.Sources)),
		Saved:      res.PersistErr == nil,
	}

	for i, src := range res.Sources {
		v.Sources[i] = sourceView{Source: src.Source, Fetched: src.Fetched, Skipped: src.Skipped}
		if src.Err != nil {
			v.Sources[i].Error = src.Err.Error()
		}
	}

	return v
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull new quotes from the configured remote sources",
		Long: `Pull new quotes from the configured remote sources.

Remote quotes already in the library are skipped; nothing is ever removed.
Exits non-zero when no source could be reached.`,
		Args: cobra.NoArgs,
		RunE: withSession(rootOpts, func(ctx context.Context, s *session, _ []string) error {
			res := s.service.Sync(ctx)

			s.out.warnIfNotPersisted(res.PersistErr)

			if err := s.out.Emit(newSyncView(res), func(w io.Writer) {
				printSync(w, res)
			}); err != nil {
				return err
			}

			if res.Outcome == app.OutcomeFetchFailed {
				return NewExitError(ExitFailure, "no remote source could be reached")
			}

			return nil
		}),
	}
}

func printSync(w io.Writer, res app.SyncResult) {
	fmt.Fprintf(w, "%s: %d added, %d already present, %d skipped\n",
		res.Outcome, res.Added, res.Duplicates, res.Skipped)

	for _, src := range res.Sources {
		if src.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", src.Source, src.Err)
			continue
		}
		fmt.Fprintf(w, "  %s: %d fetched, %d skipped\n", src.Source, src.Fetched, src.Skipped)
	}
}
