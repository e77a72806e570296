// Package server provides the HTTP API for DocVault.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/config"
	"github.com/docscan/docvault/internal/storage"
)

// Server is the HTTP server for the DocVault API.
type Server struct {
	storage    storage.Storage
	uploadsDir string
	dbPath     string
	kick       func()
	config     *config.ServerConfig
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies. kick wakes the
// processing worker after an upload; it may be nil.
func NewServer(
	store storage.Storage,
	uploadsDir string,
	dbPath string,
	kick func(),
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		storage:    store,
		uploadsDir: uploadsDir,
		dbPath:     dbPath,
		kick:       kick,
		config:     cfg,
		logger:     logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/api/documents", s.handleListDocuments)
	r.Post("/api/documents/upload", s.handleUpload)
	r.Get("/api/documents/{id}", s.handleGetDocument)
	r.Patch("/api/documents/{id}", s.handleUpdateDocument)
	r.Delete("/api/documents/{id}", s.handleDeleteDocument)
	r.Post("/api/documents/search", s.handleSearch)
	r.Get("/api/stats", s.handleStats)

	r.Get("/api/categories", s.handleListCategories)
	r.Post("/api/categories", s.handleCreateCategory)
	r.Patch("/api/categories/{id}", s.handleUpdateCategory)
	r.Delete("/api/categories/{id}", s.handleDeleteCategory)

	r.Get("/api/files/{name}", s.handleServeFile)
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
