package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sahaara/backend/internal/model/checkin"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCommand(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the check-in history",
		Long:  `Export the whole check-in history as JSON or YAML, to stdout or a file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format == "yml" {
				format = formatYAML
			}
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}

			history, err := opts.openLog()
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.ReadAll(context.Background())
			if err != nil {
				return fmt.Errorf("failed to read check-ins: %w", err)
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := exportRecords(w, format, records); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d check-ins to %s\n", len(records), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Export format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func exportRecords(w io.Writer, format string, records []checkin.Record) error {
	if records == nil {
		records = []checkin.Record{}
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		enc.SetIndent(2)
		return enc.Encode(records)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(records)
	}
}
