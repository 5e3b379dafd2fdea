package server

import (
	"encoding/json"
	"net/http"

	"github.com/jackzampolin/outline/internal/svcctx"
)

// routes sets up all HTTP routes and the middleware around them.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)
	return s.withServices(mux)
}

// withServices wraps a handler to enrich the request context with services.
// Each request sees one consistent snapshot, even across a config reload.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if services := s.services.Load(); services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the outline runner is ready.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.RunnerFrom(r.Context()) == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server not fully initialized"})
			return
		}
		next(w, r)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
