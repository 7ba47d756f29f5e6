// Package cli implements sahaara-history, a terminal viewer for the
// check-in log written by the API server.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sahaara/backend/internal/config"
	"github.com/sahaara/backend/internal/storage"
)

type options struct {
	verbose     bool
	driver      string
	path        string
	databaseURL string
}

// NewRootCommand builds the command tree. Flags override the STORE_*
// environment used by the server.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "sahaara-history",
		Short: "Inspect and export recorded check-ins",
		Long: `Inspect and export the check-in history recorded by the Sahaara API.

The store is selected the same way the server selects it (STORE_DRIVER,
STORE_PATH, DATABASE_URL) unless overridden by flags.

Examples:
  sahaara-history list
  sahaara-history show 6f1c...
  sahaara-history export --format yaml -o history.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Store driver: file, sqlite or postgres")
	root.PersistentFlags().StringVar(&opts.path, "path", "", "Store path for the file and sqlite drivers")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Connection string for the postgres driver")

	root.AddCommand(newListCommand(opts), newShowCommand(opts), newExportCommand(opts))
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *options) storageConfig() (config.StorageConfig, error) {
	return config.ResolveStorage(
		firstNonEmpty(o.driver, os.Getenv("STORE_DRIVER")),
		firstNonEmpty(o.path, os.Getenv("STORE_PATH")),
		firstNonEmpty(o.databaseURL, os.Getenv("DATABASE_URL")),
	)
}

func (o *options) openLog() (storage.Log, error) {
	cfg, err := o.storageConfig()
	if err != nil {
		return nil, err
	}

	log.Printf("[history] opening %s store %s", cfg.Driver, cfg.Path)
	history, err := storage.OpenExisting(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return history, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
