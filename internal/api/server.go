// Package api provides the HTTP REST surface of the node.
//
// It exposes the adoption descriptor and health endpoint, mirrors the
// MQTT config/command dispatch over POST for controllers that prefer
// HTTP, and lets firmware register its own GET/POST handlers before the
// server starts.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/edgenode-io/edgenode/internal/infrastructure/config"
	"github.com/edgenode-io/edgenode/internal/infrastructure/logging"
	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
//
// Adoption is required; the config/command handlers and Restart are
// optional and return 404 / 503 when absent.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	Version string

	// Adoption builds a fresh adoption descriptor per request.
	Adoption func() *jsondoc.Doc

	// ConfigHandler and CommandHandler dispatch decoded documents the
	// same way the MQTT receive path does.
	ConfigHandler  func(doc *jsondoc.Doc)
	CommandHandler func(doc *jsondoc.Doc)

	// MQTTHandler persists broker connection overrides. The overrides
	// take effect on the next restart.
	MQTTHandler func(doc *jsondoc.Doc) error

	// Restart triggers a node restart. Invoked asynchronously after the
	// response is written.
	Restart func()
}

// route is one firmware-registered handler, mounted when Start builds
// the router.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// Server is the node's HTTP API server.
//
// It is created with New() and started with Start(). Firmware handlers
// must be registered between the two.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	version  string
	adoption func() *jsondoc.Doc
	onConfig func(doc *jsondoc.Doc)
	onCmd    func(doc *jsondoc.Doc)
	onMQTT   func(doc *jsondoc.Doc) error
	restart  func()

	custom []route
	server *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, adoption builder)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Adoption == nil {
		return nil, fmt.Errorf("adoption builder is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		version:  deps.Version,
		adoption: deps.Adoption,
		onConfig: deps.ConfigHandler,
		onCmd:    deps.CommandHandler,
		onMQTT:   deps.MQTTHandler,
		restart:  deps.Restart,
	}, nil
}

// RegisterGet mounts a firmware GET handler at the given pattern.
// Must be called before Start.
func (s *Server) RegisterGet(pattern string, handler http.HandlerFunc) {
	s.custom = append(s.custom, route{method: http.MethodGet, pattern: pattern, handler: handler})
}

// RegisterPost mounts a firmware POST handler at the given pattern.
// Must be called before Start.
func (s *Server) RegisterPost(pattern string, handler http.HandlerFunc) {
	s.custom = append(s.custom, route{method: http.MethodPost, pattern: pattern, handler: handler})
}

// Start begins listening for HTTP connections.
//
// It builds the router (built-in routes plus firmware-registered ones)
// and launches the listener in a background goroutine. The server is
// stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
