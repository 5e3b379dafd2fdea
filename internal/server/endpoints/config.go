package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/svcctx"
)

// ConfigEndpoint handles GET /api/config.
type ConfigEndpoint struct{}

var _ api.Endpoint = (*ConfigEndpoint)(nil)

func (e *ConfigEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/config", e.handler
}

func (e *ConfigEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Current configuration
//	@Description	Returns the active configuration, including hot-reloaded pipeline parameters
//	@Tags			config
//	@Produce		json
//	@Success		200	{object}	config.Config
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/config [get]
func (e *ConfigEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	cfg := svcctx.ConfigFrom(r.Context())
	if cfg == nil {
		writeError(w, http.StatusServiceUnavailable, "config manager not initialized")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (e *ConfigEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the server's active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var cfg config.Config
			if err := client.Get(cmd.Context(), "/api/config", &cfg); err != nil {
				return err
			}
			return api.Output(cfg)
		},
	}
}

// ConfigKeyEndpoint handles GET /api/config/{key...}.
type ConfigKeyEndpoint struct{}

var _ api.Endpoint = (*ConfigKeyEndpoint)(nil)

func (e *ConfigKeyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/config/{key...}", e.handler
}

func (e *ConfigKeyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Configuration key
//	@Description	Returns one configuration key with its effective value and description
//	@Tags			config
//	@Produce		json
//	@Param			key	path		string	true	"Dotted key, e.g. pipeline.breakpoint_threshold"
//	@Success		200	{object}	config.Entry
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/config/{key} [get]
func (e *ConfigKeyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s := svcctx.ServicesFrom(r.Context())
	if s == nil || s.ConfigMgr == nil {
		writeError(w, http.StatusServiceUnavailable, "config manager not initialized")
		return
	}

	entry, err := s.ConfigMgr.Lookup(r.PathValue("key"))
	switch {
	case errors.Is(err, config.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, config.ErrNoDefault):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}

func (e *ConfigKeyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "config-get <key>",
		Short: "Show one configuration key from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateKey(args[0]); err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var entry config.Entry
			if err := client.Get(cmd.Context(), "/api/config/"+args[0], &entry); err != nil {
				return err
			}
			return api.Output(entry)
		},
	}
}
