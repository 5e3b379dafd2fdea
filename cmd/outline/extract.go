package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/batch"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/schema"
)

var (
	extractOut     string
	extractWorkers int
	extractFormat  string
)

var extractCmd = &cobra.Command{
	Use:   "extract [files or directories...]",
	Short: "Write the outline of each PDF to the output directory",
	Long: `Extract outlines from PDF files.

Each argument is a PDF file or a directory whose *.pdf files are processed
(not recursively). With no arguments the inbox under the home directory is
used. One <name>.json (or .yaml) file is written per PDF; a PDF that cannot be
parsed is reported and skipped without affecting the others.

Examples:
  outline extract report.pdf                  # Outline one file
  outline extract ./scans --out ./outlines    # Outline a directory
  outline extract ./scans --workers 8 --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, h, err := loadEnv()
		if err != nil {
			return err
		}

		cfg := *mgr.Get()
		if cmd.Flags().Changed("workers") {
			cfg.Batch.Workers = extractWorkers
		}
		if cmd.Flags().Changed("format") {
			cfg.Batch.Format = extractFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		inputs := args
		if len(inputs) == 0 {
			inputs = []string{h.InboxPath()}
		}
		out := extractOut
		if out == "" {
			out = h.ResolveOutput(cfg.Batch.OutputDir)
		}

		runner, err := newRunner(&cfg)
		if err != nil {
			return err
		}

		summary, err := runner.Run(cmd.Context(), batch.Request{Inputs: inputs, OutDir: out})
		if errors.Is(err, batch.ErrNoInput) {
			logger.Warn("no PDF files found", "inputs", inputs)
			return nil
		}
		if err != nil {
			return err
		}

		if err := api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), summary); err != nil {
			return err
		}
		if summary.Processed == 0 {
			return fmt.Errorf("all %d documents failed", len(summary.Results))
		}
		return nil
	},
}

// newRunner builds a runner that validates every document against the output
// schema before it is written.
func newRunner(cfg *config.Config) (*batch.Runner, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return batch.NewRunner(cfg, validator, logger)
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default: batch.output_dir or ~/.outline/output)")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "documents processed concurrently (default: batch.workers)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "outline file format: json or yaml (default: batch.format)")

	rootCmd.AddCommand(extractCmd)
}
