package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/batch"
)

var (
	watchOut      string
	watchExisting bool
	watchSettle   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Outline PDFs as they arrive in a directory",
	Long: `Watch a directory and write an outline for every PDF that is created or
rewritten there, until interrupted. With no argument the inbox under the
home directory is watched.

Examples:
  outline watch                           # Watch ~/.outline/inbox
  outline watch ./scans --out ./outlines --existing`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, h, err := loadEnv()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		dir := h.InboxPath()
		if len(args) == 1 {
			dir = args[0]
		}
		if _, err := os.Stat(dir); err != nil {
			return err
		}
		out := watchOut
		if out == "" {
			out = h.ResolveOutput(mgr.Get().Batch.OutputDir)
		}

		runner, err := newRunner(mgr.Get())
		if err != nil {
			return err
		}
		return runner.Watch(cmd.Context(), batch.WatchRequest{
			Dir:      dir,
			OutDir:   out,
			Existing: watchExisting,
			Settle:   watchSettle,
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "output directory (default: batch.output_dir or ~/.outline/output)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also outline PDFs already in the directory")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", batch.DefaultSettle, "quiet period after the last write before a PDF is read")

	rootCmd.AddCommand(watchCmd)
}
