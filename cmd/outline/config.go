package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write a config file holding every setting at its default value.

Without a path the file is written to the home directory
(~/.outline/config.yaml), which is searched automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		logger.Info("wrote default config", "file", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := loadEnv()
		if err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), mgr.Get())
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key with its default and description",
	RunE: func(cmd *cobra.Command, args []string) error {
		return api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), config.DefaultEntries())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one key with its effective value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := loadEnv()
		if err != nil {
			return err
		}
		entry, err := mgr.Lookup(args[0])
		if err != nil {
			return err
		}
		return api.OutputTo(cmd.OutOrStdout(), api.GetOutputFormat(), entry)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd, configKeysCmd, configGetCmd)
	rootCmd.AddCommand(configCmd)
}
