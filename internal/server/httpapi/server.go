// Package httpapi exposes the server's JSON API: registration, login, token
// refresh, and authenticated record CRUD.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ysemenov/coinkeeper/internal/logging"
)

// Server owns the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	log        logging.Logger
}

// NewServer constructs a Server on addr using the provided handler.
func NewServer(addr string, handler http.Handler, log logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start begins listening for HTTP traffic. It blocks until the listener
// stops; a graceful Shutdown is not reported as an error.
func (s *Server) Start() error {
	s.log.Info(context.Background(), "starting http server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully terminates active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
