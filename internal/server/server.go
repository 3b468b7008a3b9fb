// Package server provides the HTTP API for pdfseek.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/pdfseek/internal/config"
	"github.com/hyperjump/pdfseek/internal/search"
	"go.uber.org/zap"
)

// requestTimeout bounds every request, searches included.
const requestTimeout = 60 * time.Second

// Server is the HTTP server for the pdfseek API.
type Server struct {
	engine  *search.Engine
	config  *config.ServerConfig
	logger  *zap.Logger
	version string
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, logger *zap.Logger, version string) *Server {
	return &Server{
		engine:  engine,
		config:  cfg,
		logger:  logger,
		version: version,
	}
}

// Routes returns the HTTP handler with all API routes mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/config", s.handleConfig)
		r.Get("/download", s.handleDownload)
		r.Get("/status", s.handleStatus)
	})
	// Unversioned paths used by the web form.
	r.Post("/search", s.handleSearch)
	r.Get("/config", s.handleConfig)
	r.Get("/download", s.handleDownload)
	r.Get("/health", s.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("search_directory", s.engine.Root()),
	)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
