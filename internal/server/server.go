package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/outline/internal/api"
	"github.com/jackzampolin/outline/internal/batch"
	"github.com/jackzampolin/outline/internal/config"
	"github.com/jackzampolin/outline/internal/home"
	"github.com/jackzampolin/outline/internal/server/endpoints"
	"github.com/jackzampolin/outline/internal/svcctx"
)

// Server is the outline HTTP server. It outlines uploaded PDFs with a runner
// that is rebuilt whenever the configuration file changes.
type Server struct {
	httpServer    *http.Server
	configMgr     *config.Manager
	home          *home.Dir
	validator     batch.Validator
	logger        *slog.Logger
	shutdownGrace time.Duration

	// services holds all core services for context enrichment.
	// Swapped as a whole on config reload.
	services atomic.Pointer[svcctx.Services]

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	running  bool
	listener net.Listener
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config)
	Port string
	// ConfigManager provides configuration with hot-reload support (required)
	ConfigManager *config.Manager
	// Home is where uploads are staged; the system temp dir is used when nil
	Home *home.Dir
	// Validator checks documents before they are returned (optional)
	Validator batch.Validator
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	current := cfg.ConfigManager.Get()
	if cfg.Host == "" {
		cfg.Host = current.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = current.Server.Port
	}

	s := &Server{
		configMgr:     cfg.ConfigManager,
		home:          cfg.Home,
		validator:     cfg.Validator,
		logger:        cfg.Logger,
		shutdownGrace: current.Server.ShutdownGrace,
	}

	if err := s.reload(current); err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	// Watch for config changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		if err := s.reload(c); err != nil {
			s.logger.Error("keeping previous pipeline after config change", "error", err)
			return
		}
		s.logger.Info("pipeline reloaded from config",
			"breakpoint_threshold", c.Pipeline.BreakpointThreshold,
			"cluster_tolerance", c.Pipeline.ClusterTolerance)
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	s.endpointRegistry.Register(endpoints.All(endpoints.Config{
		MaxUploadBytes: current.Server.MaxUploadMB << 20,
	})...)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // Large uploads
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// reload builds a runner from c and publishes it to request handlers.
func (s *Server) reload(c *config.Config) error {
	runner, err := batch.NewRunner(c, s.validator, s.logger)
	if err != nil {
		return err
	}
	s.services.Store(&svcctx.Services{
		Logger:    s.logger,
		ConfigMgr: s.configMgr,
		Home:      s.home,
		Runner:    runner,
	})
	return nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown drains in-flight requests within the configured grace period.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	grace := s.shutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started, this is the bound
// address, which resolves port 0 to the actual port.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Runner returns the runner currently serving requests.
func (s *Server) Runner() *batch.Runner {
	return s.services.Load().Runner
}

// Endpoints returns the endpoint registry, whose commands mirror the routes.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}
