package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/schema"
	"github.com/jackzampolin/outline/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outline server",
	Long: `Start the outline HTTP server.

The config file is watched while the server runs; pipeline settings changed
there apply to the next request without a restart.

The server provides:
  - POST /api/outline    - Upload a PDF, receive its outline
  - GET  /api/config     - Active configuration
  - GET  /api/schema     - JSON Schema of outline documents
  - GET  /health, /ready - Health checks
  - GET  /swagger        - API documentation

Examples:
  outline serve                    # Start on server.host:server.port (127.0.0.1:8080)
  outline serve --port 3000        # Start on custom port
  outline serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, h, err := loadEnv()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		validator, err := schema.NewValidator()
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: mgr,
			Home:          h,
			Validator:     validator,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		if mgr.ConfigFile() != "" {
			mgr.WatchConfig()
			logger.Info("watching config for changes", "file", mgr.ConfigFile())
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port)")

	rootCmd.AddCommand(serveCmd)
}
