package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ovationworks/cueboard-core/internal/cue"
	"github.com/ovationworks/cueboard-core/internal/dispatch"
	"github.com/ovationworks/cueboard-core/internal/executor"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/config"
	"github.com/ovationworks/cueboard-core/internal/infrastructure/logging"
	"github.com/ovationworks/cueboard-core/internal/sequence"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Selector dispatches a cue selection through the debounce pipeline. It is
// implemented by dispatch.Coordinator.
type Selector interface {
	Select(c cue.Cue, trigger executor.Trigger)
	Busy() bool
	LastStatus() (dispatch.Status, bool)
}

// BatchRunner executes an ordered batch of cues. It is implemented by
// executor.Runner.
type BatchRunner interface {
	RunAll(ctx context.Context, cues []cue.Cue, trigger executor.Trigger) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Logger      *logging.Logger
	Table       *cue.Table
	Sequences   *sequence.Store
	Coordinator Selector
	Runner      BatchRunner
	History     executor.Repository
	ExternalHub *Hub // If set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	logger      *logging.Logger
	table       *cue.Table
	sequences   *sequence.Store
	coordinator Selector
	runner      BatchRunner
	history     executor.Repository
	version     string
	server      *http.Server
	hub         *Hub
	externalHub bool               // true if hub was injected externally
	baseCtx     context.Context    // lifetime context for background batch runs
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, table, coordinator)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Table == nil {
		return nil, fmt.Errorf("cue table is required")
	}
	if deps.Coordinator == nil {
		return nil, fmt.Errorf("dispatch coordinator is required")
	}
	// Sequences, runner, and history are optional; the routes that need
	// them respond 404 or 500 when absent.

	s := &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		table:       deps.Table,
		sequences:   deps.Sequences,
		coordinator: deps.Coordinator,
		runner:      deps.Runner,
		history:     deps.History,
		version:     deps.Version,
	}

	// Use externally-provided hub if available (needed when the dispatch
	// coordinator also requires the hub for its notifier).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	s.baseCtx = srvCtx

	// Create WebSocket hub (unless one was injected externally)
	if s.hub == nil {
		s.hub = NewHub(s.logger)
		go s.hub.Run(srvCtx)
	}

	// Build router
	router := s.buildRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
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
