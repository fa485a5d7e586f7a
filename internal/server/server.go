// Package server provides the HTTP API for Kizuna.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/pipeline"
	"github.com/hyperjump/kizuna/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Kizuna API.
type Server struct {
	pipeline *pipeline.Pipeline
	store    storage.Store
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	p *pipeline.Pipeline,
	store storage.Store,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline: p,
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/batches", s.handleBuildBatch)
	r.Get("/api/v1/batches", s.handleListBatches)
	r.Get("/api/v1/batches/{id}/graph", s.handleGetGraph)
	r.Get("/api/v1/batches/{id}/clusters", s.handleGetClusters)
	r.Post("/api/v1/batches/{id}/query", s.handleQuery)
	r.Delete("/api/v1/batches/{id}", s.handleDeleteBatch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
