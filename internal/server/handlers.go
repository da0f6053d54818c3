package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relmap/relmap/internal/cache"
	"github.com/relmap/relmap/internal/layout"
	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/projector"
	"github.com/relmap/relmap/internal/similarity"
	"github.com/relmap/relmap/internal/storage"
	"github.com/relmap/relmap/internal/timeline"
)

// maxSettleTicks bounds a single layout run. The alpha schedule settles in
// ~135 ticks, so hitting the bound means the response ships unsettled rather
// than stalling the request.
const maxSettleTicks = 1000

type datasetInput struct {
	Name    string                 `json:"name"`
	Records []*models.ResultRecord `json:"records"`
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var input datasetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(input.Records) == 0 {
		s.respondError(w, http.StatusBadRequest, "records are required")
		return
	}
	ds := &models.Dataset{
		ID:      uuid.New().String(),
		Name:    input.Name,
		Records: input.Records,
	}
	s.logger.Debug("create dataset request",
		zap.String("name", ds.Name), zap.Int("records", len(ds.Records)))
	if err := s.store.CreateDataset(r.Context(), ds); err != nil {
		s.logger.Error("create dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":           ds.ID,
		"record_count": len(ds.Records),
	})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	list, err := s.store.ListDatasets(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list datasets failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"datasets": list})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.store.GetDataset(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "dataset not found")
			return
		}
		s.logger.Error("get dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete dataset request", zap.String("id", id))
	if err := s.store.DeleteDataset(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "dataset not found")
			return
		}
		s.logger.Error("delete dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.InvalidateDataset(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key(id, "graph",
		req.Dimension,
		fmt.Sprintf("%g", req.MinScore),
		req.AnchorID,
		fmt.Sprintf("%g:%g:%g:%g:%g",
			req.DistanceMultiplier, req.ChargeStrength, req.CollisionRadius,
			req.CenterX, req.CenterY))
	if v, ok := s.cache.Get(key); ok {
		resp := *v.(*models.GraphResponse)
		resp.Cached = true
		s.respondJSON(w, http.StatusOK, &resp)
		return
	}

	ds, err := s.store.GetDataset(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "dataset not found")
			return
		}
		s.logger.Error("get dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := s.projectAndSettle(ds, &req)
	s.cache.Set(key, resp)
	s.respondJSON(w, http.StatusOK, resp)
}

// projectAndSettle runs the full pipeline for one graph request: filter and
// rank records into nodes and edges, then settle the force layout.
func (s *Server) projectAndSettle(ds *models.Dataset, req *models.GraphRequest) *models.GraphResponse {
	dim := req.Dimension
	if dim == "" {
		dim = s.cfg.Projection.Dimension
	}
	minScore := req.MinScore
	if minScore == 0 {
		minScore = s.cfg.Projection.MinScore
	}
	graph := projector.Project(ds.Records, projector.Options{
		Dimension:     similarity.ParseDimension(dim),
		MinScore:      minScore,
		MaxNodes:      s.cfg.Projection.MaxNodes,
		EdgeThreshold: s.cfg.Projection.EdgeThreshold,
		Similarity:    &s.cfg.Projection.Similarity,
	})

	opts := s.cfg.Layout
	if req.DistanceMultiplier != 0 {
		opts.DistanceMultiplier = req.DistanceMultiplier
	}
	if req.ChargeStrength != 0 {
		opts.ChargeStrength = req.ChargeStrength
	}
	if req.CollisionRadius != 0 {
		opts.CollisionRadius = req.CollisionRadius
	}
	if req.CenterX != 0 {
		opts.CenterX = req.CenterX
	}
	if req.CenterY != 0 {
		opts.CenterY = req.CenterY
	}
	opts.AnchorID = req.AnchorID

	engine := layout.NewEngine(opts)
	engine.Reset(graph)
	ticks := engine.Settle(maxSettleTicks)
	s.logger.Debug("graph settled",
		zap.String("dataset", ds.ID),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
		zap.Int("ticks", ticks))
	return &models.GraphResponse{
		Points:  engine.Positions(),
		Edges:   graph.Edges,
		Settled: engine.State() == layout.StateSettled || engine.State() == layout.StateIdle,
		Ticks:   ticks,
	}
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Width == 0 {
		req.Width = s.cfg.Timeline.Width
	}
	if req.Height == 0 {
		req.Height = s.cfg.Timeline.Height
	}
	if req.DateField == "" {
		req.DateField = s.cfg.Timeline.DateField
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key(id, "timeline",
		req.DateField, req.Dimension,
		fmt.Sprintf("%gx%g", req.Width, req.Height))
	if v, ok := s.cache.Get(key); ok {
		s.respondJSON(w, http.StatusOK, v)
		return
	}

	ds, err := s.store.GetDataset(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "dataset not found")
			return
		}
		s.logger.Error("get dataset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dim := req.Dimension
	if dim == "" {
		dim = s.cfg.Projection.Dimension
	}
	projection := timeline.Project(ds.Records, timeline.Options{
		DateField: models.ParseDateField(req.DateField),
		Dimension: similarity.ParseDimension(dim),
		Width:     req.Width,
		Height:    req.Height,
	})
	s.cache.Set(key, projection)
	s.respondJSON(w, http.StatusOK, projection)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	datasetCount, err := s.store.CountDatasets(ctx)
	if err != nil {
		s.logger.Error("status: count datasets failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	recordCount, err := s.store.CountRecords(ctx)
	if err != nil {
		s.logger.Error("status: count records failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"datasets":           datasetCount,
		"records":            recordCount,
		"cached_projections": s.cache.Len(),
	}
	resp["config"] = map[string]interface{}{
		"dimension":      s.cfg.Projection.Dimension,
		"max_nodes":      s.cfg.Projection.MaxNodes,
		"edge_threshold": s.cfg.Projection.EdgeThreshold,
		"database_path":  s.cfg.Storage.DatabasePath,
	}
	if diskBytes, err := storage.DiskUsageBytes(s.cfg.Storage.DatabasePath); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
