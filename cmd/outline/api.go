package main

import (
	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	registry := api.NewRegistry()
	registry.Register(endpoints.All(endpoints.Config{})...)

	apiCmd := registry.BuildCommands(getServerURL)
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}
