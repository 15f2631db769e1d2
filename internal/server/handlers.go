package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/ingest"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/retrieval"
	"github.com/hyperjump/shirabe/internal/storage"
)

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req models.RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("retrieve request",
		zap.String("query", req.Query),
		zap.Int("top_k", req.TopK))

	resp, err := s.pipeline.Retrieve(r.Context(), &req)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		s.respondError(w, retrievalStatus(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// retrievalStatus maps pipeline failures onto HTTP status codes. Fatal
// collaborator errors are server-side conditions, never silent empties.
func retrievalStatus(err error) int {
	switch {
	case errors.Is(err, retrieval.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, retrieval.ErrIndexUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, retrieval.ErrEmbedding):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type ingestDocumentRequest struct {
	SourcePath string `json:"source_path"`
	Content    string `json:"content"`
}

func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	var req ingestDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	sourcePath := req.SourcePath
	if sourcePath == "" {
		sourcePath = "api"
	}
	doc, err := ingest.ParseDocument(sourcePath, req.Content)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("ingest document request", zap.String("doc_id", doc.ID))
	if err := s.ingestor.IngestDocument(r.Context(), doc); err != nil {
		s.logger.Error("ingestion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"doc_id": doc.ID, "status": "ingested"})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "document not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.ingestor.DeleteDocument(r.Context(), id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":         docCount,
		"chunks":            chunkCount,
		"vector_index_size": s.vectorIndex.Size(),
		"config": map[string]interface{}{
			"vector_index_type":    s.config.Storage.VectorIndexType,
			"embedding_type":       s.config.Embedding.Type,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"chunk_size":           s.config.Ingest.ChunkSize,
			"chunk_overlap":        s.config.Ingest.ChunkOverlap,
			"database_path":        s.config.Storage.DatabasePath,
		},
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
