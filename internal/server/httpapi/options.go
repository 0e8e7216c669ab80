package httpapi

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server and its request log.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogHandler creates a logger from handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Server) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("httpapi.Server")
		}
	}
}

// WithDrainTimeout bounds how long in-flight requests get on shutdown.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeouts.DrainTimeout = timeout
	}
}

// WithReadTimeout sets the server read timeout.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeouts.ReadTimeout = timeout
	}
}

// WithHeaders sets response headers on every route.
func WithHeaders(headers map[string]string) Option {
	return func(s *Server) {
		if len(headers) == 0 {
			return
		}
		h := make(http.Header, len(headers))
		for key, value := range headers {
			h.Set(key, value)
		}
		s.headers = h
	}
}

// WithMCPHandler mounts an MCP endpoint at MCPPath.
func WithMCPHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.mcpHandler = handler
	}
}
