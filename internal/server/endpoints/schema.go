package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/schema"
)

// SchemaEndpoint handles GET /api/schema, the JSON Schema of outline documents.
type SchemaEndpoint struct{}

var _ api.Endpoint = (*SchemaEndpoint)(nil)

func (e *SchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schema", e.handler
}

func (e *SchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Output schema
//	@Description	Returns the JSON Schema every outline document satisfies
//	@Tags			outline
//	@Produce		json
//	@Success		200
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/schema [get]
func (e *SchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, err := schema.Get(schema.Document)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(s.Source)
}

func (e *SchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Fetch the outline document schema from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc map[string]any
			if err := client.Get(cmd.Context(), "/api/schema", &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
}
