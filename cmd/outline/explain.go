package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/outline"
)

var explainHeadingsOnly bool

var explainCmd = &cobra.Command{
	Use:   "explain <file.pdf>",
	Short: "Show how each line of a PDF was classified",
	Long: `Explain prints every extracted line with its font-size level and the
classifier rule that accepted or rejected it, followed by the level counts,
the breakpoint, and the final outline. Use it to tune pipeline settings.

Examples:
  outline explain report.pdf
  outline explain report.pdf --headings-only -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := loadEnv()
		if err != nil {
			return err
		}
		runner, err := newRunner(mgr.Get())
		if err != nil {
			return err
		}

		doc, report, err := runner.Build(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ex := outline.Explain(doc, report, explainHeadingsOnly)
		return api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), ex)
	},
}

func init() {
	explainCmd.Flags().BoolVar(&explainHeadingsOnly, "headings-only", false, "omit lines at the body level")

	rootCmd.AddCommand(explainCmd)
}
