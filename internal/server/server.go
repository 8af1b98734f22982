package server

import (
	"context"
	"net/http"
	"time"
)

// Server encapsulates the HTTP server of the application, providing controlled startup and shutdown.
type Server struct {
	server *http.Server
}

// ListenAndServe starts the HTTP server and begins listening on the configured address.
// Blocks execution until the server is stopped or an error occurs.
// If server is stopped via Shutdown, method returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server with the provided context.
// Active connections are allowed to complete within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// NewServer creates a server listening on address and serving router.
//
// Read and write timeouts bound every request. The write timeout must cover
// an upload and a scrape of the matchups page.
func NewServer(address string, readTimeout, writeTimeout time.Duration, router *Router) *Server {
	s := Server{&http.Server{
		Addr:           address,
		Handler:        router.Mux(),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		MaxHeaderBytes: 1024 * 10,
	}}

	return &s
}
