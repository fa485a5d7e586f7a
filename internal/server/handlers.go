package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/kizuna/internal/batchio"
	"github.com/hyperjump/kizuna/internal/graph"
	"github.com/hyperjump/kizuna/internal/models"
	"github.com/hyperjump/kizuna/internal/query"
	"github.com/hyperjump/kizuna/internal/storage"
	"go.uber.org/zap"
)

type buildRequest struct {
	Documents []*models.Document `json:"documents"`
}

func (s *Server) handleBuildBatch(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		s.respondError(w, http.StatusBadRequest, "documents must not be empty")
		return
	}
	batchio.EnsureIDs(req.Documents)
	s.logger.Debug("build batch request", zap.Int("documents", len(req.Documents)))

	batch, g, err := s.pipeline.BuildBatch(r.Context(), req.Documents)
	if err != nil {
		if errors.Is(err, graph.ErrDuplicateDocument) {
			s.respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("batch build failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, g.Export(batch.ID))
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.ListBatches(r.Context())
	if err != nil {
		s.logger.Error("list batches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if infos == nil {
		infos = []storage.BatchInfo{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"batches": infos})
}

// loadGraph fetches a stored batch and rebuilds its graph.
func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (*graph.Graph, string, bool) {
	id := chi.URLParam(r, "id")
	batch, err := s.store.GetBatch(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrBatchNotFound) {
			s.respondError(w, http.StatusNotFound, "batch not found")
		} else {
			s.logger.Error("load batch failed", zap.String("batch", id), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, "", false
	}
	g, err := graph.FromBatch(batch)
	if err != nil {
		s.logger.Error("rebuild graph failed", zap.String("batch", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return nil, "", false
	}
	return g, id, true
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	g, id, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, g.Export(id))
}

func (s *Server) handleGetClusters(w http.ResponseWriter, r *http.Request) {
	g, id, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id": id,
		"clusters": g.Clusters(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	g, id, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	var spec models.QuerySpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("query request", zap.String("batch", id), zap.String("type", string(spec.Type)))

	result, err := query.NewEngine(g, s.logger).Run(&spec)
	if err != nil {
		// Query errors are caller mistakes (unknown type, bad field), not
		// server faults.
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteBatch(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrBatchNotFound) {
			s.respondError(w, http.StatusNotFound, "batch not found")
			return
		}
		s.logger.Error("delete batch failed", zap.String("batch", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountBatches(r.Context())
	if err != nil {
		s.logger.Error("status: count batches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"batches": count})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
