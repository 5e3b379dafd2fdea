package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/home"
	"github.com/jackzampolin/outline/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
	logFormat    string

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "outline",
	Short: "Recover the title and heading outline of PDF documents",
	Long: `outline reads PDF files and reconstructs their document outline: a title
plus a list of H1..Hn headings with page numbers.

Headings are found from typography alone:
  - Font sizes are clustered into heading tiers, largest first
  - Each line is classified by position, casing, font weight, and length
  - Multi-line headings are merged and duplicates removed
  - Over-populated tiers are cut so the outline stays shallow`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.outline/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "outline home directory (default: ~/.outline)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, or error",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "text", "log format: text or json",
	)

	// Set output format and logging before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		api.SetOutputFormat(outputFormat)
		l, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger. Logs go to w so stdout stays free for
// structured command output.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q: must be text or json", format)
	}
}

// loadEnv resolves the home directory and loads configuration from --config,
// the working directory, or the home directory, in that order.
func loadEnv() (*config.Manager, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	mgr.SetLogger(logger)
	if f := mgr.ConfigFile(); f != "" {
		logger.Debug("loaded config", "file", f)
	}
	return mgr, h, nil
}
