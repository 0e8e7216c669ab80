// Package httpapi serves the facility over HTTP through a go-supervisor
// httpserver runner.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
	"github.com/atlanticdynamic/parklynx/internal/lot"
	"github.com/atlanticdynamic/parklynx/internal/server/facility"
	"github.com/atlanticdynamic/parklynx/internal/server/finitestate"
	"github.com/robbyt/go-supervisor/runnables/httpserver"
	supervisorHeaders "github.com/robbyt/go-supervisor/runnables/httpserver/middleware/headers"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Route paths
const (
	StatusPath     = "/status"
	EnterPath      = "/enter"
	ExitPath       = "/exit"
	GraphPath      = "/graph"
	OperationsPath = "/operations"
	MCPPath        = "/mcp"
)

var (
	_ supervisor.Runnable  = (*Server)(nil)
	_ supervisor.Stateable = (*Server)(nil)

	_ serverImplementation = (*httpserver.Runner)(nil)
)

// Facility is what the HTTP handlers need from facility.Runner.
type Facility interface {
	Enter(ctx context.Context, subscriber bool) (*facility.Operation, error)
	Exit(ctx context.Context, slot *int) (*facility.Operation, error)
	Snapshot() lot.Snapshot
	Render(fn func(*automaton.Automaton) string) string
	Operations() []*facility.Operation
	Operation(id string) (*facility.Operation, bool)
}

// Timeouts for the underlying http.Server. Zero values keep the
// go-supervisor defaults.
type Timeouts struct {
	ReadTimeout  time.Duration
	DrainTimeout time.Duration
}

// serverImplementation is the part of httpserver.Runner that Server wraps.
type serverImplementation interface {
	Run(ctx context.Context) error
	Stop()
	GetState() string
	IsReady() bool
	GetStateChan(ctx context.Context) <-chan string
}

// Server is the facility HTTP API.
type Server struct {
	address    string
	facility   Facility
	logger     *slog.Logger
	timeouts   Timeouts
	headers    http.Header
	mcpHandler http.Handler

	routes []httpserver.Route
	server serverImplementation
}

// NewServer builds the routes for f and the runner that will serve them on
// address.
func NewServer(address string, f Facility, opts ...Option) (*Server, error) {
	if f == nil {
		return nil, errors.New("facility cannot be nil")
	}

	s := &Server{
		address:  address,
		facility: f,
		logger:   slog.Default().WithGroup("httpapi.Server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	routes, err := s.buildRoutes()
	if err != nil {
		return nil, err
	}
	s.routes = routes

	runner, err := httpserver.NewRunner(
		httpserver.WithConfigCallback(s.config),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server runner: %w", err)
	}
	s.server = runner
	return s, nil
}

func (s *Server) config() (*httpserver.Config, error) {
	options := []httpserver.ConfigOption{}
	if s.timeouts.ReadTimeout > 0 {
		options = append(options, httpserver.WithReadTimeout(s.timeouts.ReadTimeout))
	}
	if s.timeouts.DrainTimeout > 0 {
		options = append(options, httpserver.WithDrainTimeout(s.timeouts.DrainTimeout))
	}

	config, err := httpserver.NewConfig(s.address, s.routes, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server config: %w", err)
	}
	return config, nil
}

type routeDef struct {
	name    string
	path    string
	handler http.HandlerFunc
}

func (s *Server) buildRoutes() ([]httpserver.Route, error) {
	middlewares := []httpserver.HandlerFunc{requestLogger(s.logger)}
	if len(s.headers) > 0 {
		middlewares = append(middlewares, supervisorHeaders.NewWithOperations(
			supervisorHeaders.WithSet(s.headers),
		))
	}

	handlers := []routeDef{
		{"status", StatusPath, s.handleStatus},
		{"enter", EnterPath, s.handleEnter},
		{"exit", ExitPath, s.handleExit},
		{"graph", GraphPath, s.handleGraph},
		{"operations", OperationsPath, s.handleOperations},
	}
	if s.mcpHandler != nil {
		handlers = append(handlers, routeDef{"mcp", MCPPath, s.mcpHandler.ServeHTTP})
	}

	routes := make([]httpserver.Route, 0, len(handlers))
	for _, h := range handlers {
		route, err := httpserver.NewRouteFromHandlerFunc(h.name, h.path, h.handler, middlewares...)
		if err != nil {
			return nil, fmt.Errorf("failed to create route %s: %w", h.name, err)
		}
		routes = append(routes, *route)
	}
	return routes, nil
}

// Handler returns the routes on a plain ServeMux, for use without the
// runner.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for i := range s.routes {
		mux.Handle(s.routes[i].Path, &s.routes[i])
	}
	return mux
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.address
}

// String implements the supervisor.Runnable interface
func (s *Server) String() string {
	return fmt.Sprintf("httpapi.Server[%s]", s.address)
}

// Run implements the supervisor.Runnable interface
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", "address", s.address, "routes", len(s.routes))
	return s.server.Run(ctx)
}

// Stop implements the supervisor.Runnable interface
func (s *Server) Stop() {
	s.logger.Info("Stopping HTTP server", "address", s.address)
	s.server.Stop()
}

// GetState implements the supervisor.Stateable interface
func (s *Server) GetState() string {
	return s.server.GetState()
}

// IsRunning implements the supervisor.Stateable interface
func (s *Server) IsRunning() bool {
	return s.server.GetState() == finitestate.StatusRunning
}

// GetStateChan implements the supervisor.Stateable interface
func (s *Server) GetStateChan(ctx context.Context) <-chan string {
	return s.server.GetStateChan(ctx)
}
