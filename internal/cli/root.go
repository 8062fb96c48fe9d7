// Package cli implements the quotes command-line tool. Every command opens
// the same durable slot store the service uses, so quotes added here show up
// in the API and the other way round.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Profile   string
	Driver    string
	Path      string
	Format    string // "json" | "text"
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quotes CLI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "quotes",
		Short:   "Manage the local quote library",
		Long:    "Pick, add, import and export quotes, and pull new ones from the configured remote sources.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", config.DefaultConfigDir, "directory holding base.yaml and profile files")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", profile, "config profile (loads configs/<profile>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "storage driver override (file|sqlite|memory)")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "storage path override")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRandomCommand(opts))
	cmd.AddCommand(NewCurrentCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))

	return cmd
}
