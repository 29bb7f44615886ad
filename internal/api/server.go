package api

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the HTTP server setup
type Server struct {
	httpServer *http.Server
}

// NewServer builds a Server serving the storefront routes on addr
func NewServer(addr string, cfg RouterConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
