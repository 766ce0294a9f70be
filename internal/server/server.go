package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/medroute/pilot/internal/interfaces"
)

var (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 30 * time.Second
)

type Server struct {
	Port        string
	Host        string
	server      *http.Server
	mux         *http.ServeMux
	middlewares []func(http.Handler) http.Handler
	Logger      interfaces.Logger
}

// NewServer creates a new Server instance with the specified host and port.
// An empty host listens on every interface.
func NewServer(host, port string, logger interfaces.Logger) interfaces.Server {
	mux := http.NewServeMux()
	s := &Server{
		Host:   host,
		Port:   port,
		mux:    mux,
		Logger: logger,
	}
	s.server = &http.Server{
		Addr:         net.JoinHostPort(host, port),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return s
}

// AddRoute registers handler for the given ServeMux pattern.
func (s *Server) AddRoute(route string, handler http.Handler) error {
	if route == "" {
		return fmt.Errorf("route pattern cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler for route %s cannot be nil", route)
	}
	s.mux.Handle(route, handler)
	s.Logger.Info("Route added", "route", route)
	return nil
}

// Use appends middleware applied to every route. The first middleware added is the outermost.
func (s *Server) Use(middleware ...func(http.Handler) http.Handler) {
	s.middlewares = append(s.middlewares, middleware...)
}

// Handler returns the mux wrapped in the registered middleware.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		handler = s.middlewares[i](handler)
	}
	return handler
}

// ListenAndServe starts the HTTP server and blocks until it stops.
// A server stopped through Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.server.Handler = s.Handler()
	s.Logger.Info("MedRoute API Server running", "host", s.Host, "port", s.Port)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error("Failed to start server", "error", err)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
