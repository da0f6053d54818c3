// Package server provides the HTTP API for relmap.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/relmap/relmap/internal/cache"
	"github.com/relmap/relmap/internal/config"
	"github.com/relmap/relmap/internal/loader"
	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/storage"
)

// Server is the HTTP server for the relmap API.
type Server struct {
	store  storage.Store
	cfg    *config.Config
	cache  *cache.ProjectionCache
	loader *loader.Loader
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	store storage.Store,
	cfg *config.Config,
	projCache *cache.ProjectionCache,
	logger *zap.Logger,
) *Server {
	return &Server{
		store:  store,
		cfg:    cfg,
		cache:  projCache,
		loader: loader.NewLoader(logger),
		logger: logger,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/datasets", s.handleCreateDataset)
	r.Get("/api/v1/datasets", s.handleListDatasets)
	r.Get("/api/v1/datasets/{id}", s.handleGetDataset)
	r.Delete("/api/v1/datasets/{id}", s.handleDeleteDataset)
	r.Post("/api/v1/datasets/{id}/graph", s.handleGraph)
	r.Post("/api/v1/datasets/{id}/timeline", s.handleTimeline)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
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

// ReloadFile loads the dataset file at path and upserts it under a dataset id
// derived from the file name. Cached projections for that dataset are dropped.
// Called by the file watcher and at startup for configured watch files.
func (s *Server) ReloadFile(ctx context.Context, path string) error {
	records, err := s.loader.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	id := DatasetIDForFile(path)
	now := time.Now().UTC()
	ds := &models.Dataset{
		ID:        id,
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Records:   records,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.UpsertDataset(ctx, ds); err != nil {
		return fmt.Errorf("failed to store dataset %s: %w", id, err)
	}
	s.cache.InvalidateDataset(id)
	s.logger.Info("dataset reloaded",
		zap.String("dataset", id),
		zap.Int("records", len(records)))
	return nil
}

// RemoveFile deletes the dataset backed by the given watched file.
func (s *Server) RemoveFile(ctx context.Context, path string) {
	id := DatasetIDForFile(path)
	if err := s.store.DeleteDataset(ctx, id); err != nil && err != storage.ErrNotFound {
		s.logger.Warn("failed to remove dataset for deleted file",
			zap.String("dataset", id), zap.Error(err))
		return
	}
	s.cache.InvalidateDataset(id)
}

// DatasetIDForFile derives a stable dataset id from a watched file path.
func DatasetIDForFile(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return "file-" + strings.ToLower(base)
}
