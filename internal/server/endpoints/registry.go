package endpoints

import (
	"github.com/jackzampolin/outline/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	MaxUploadBytes int64
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Outline endpoints
		&OutlineEndpoint{MaxUploadBytes: cfg.MaxUploadBytes},
		&SchemaEndpoint{},

		// Config endpoints
		&ConfigEndpoint{},
		&ConfigKeyEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
