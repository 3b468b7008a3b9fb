package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hyperjump/pdfseek/internal/corpus"
	"github.com/hyperjump/pdfseek/internal/models"
	"go.uber.org/zap"
)

// searchResponse is the body of a successful search.
type searchResponse struct {
	Success      bool                   `json:"success"`
	SearchID     string                 `json:"search_id"`
	Results      []*models.SearchResult `json:"results"`
	Total        int                    `json:"total"`
	Truncated    bool                   `json:"truncated"`
	QueryTime    int64                  `json:"query_time_ms"`
	SearchParams *models.SearchRequest  `json:"search_params"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	criteria := req.Criteria()
	s.logger.Debug("search request", zap.Strings("fields", criteria.Keys()), zap.Bool("match_all", req.MatchAll))
	response, err := s.engine.Search(r.Context(), criteria, req.MatchAll)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &searchResponse{
		Success:      true,
		SearchID:     response.SearchID,
		Results:      response.Results,
		Total:        response.Total,
		Truncated:    response.Truncated,
		QueryTime:    response.QueryTime,
		SearchParams: &req,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Config())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	requested := r.URL.Query().Get("file")
	if requested == "" {
		s.respondError(w, http.StatusBadRequest, "parameter 'file' is required")
		return
	}
	path, err := corpus.Resolve(s.engine.Root(), requested)
	if err != nil {
		if errors.Is(err, corpus.ErrOutsideRoot) {
			s.logger.Warn("download outside search directory rejected", zap.String("file", requested))
			s.respondError(w, http.StatusForbidden, "access denied")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid file path")
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.respondError(w, http.StatusNotFound, "file not found")
		return
	}
	if !s.engine.IsDocument(path) {
		s.respondError(w, http.StatusBadRequest, "only PDF files can be downloaded")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("open file for download failed", zap.String("path", path), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	name := filepath.Base(path)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":                  "healthy",
		"search_directory_exists": s.engine.RootExists(),
		"version":                 s.version,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats()
	if err != nil {
		s.logger.Error("status: corpus stats failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":   stats.Documents,
		"total_bytes": stats.TotalBytes,
		"config":      s.engine.Config(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{"success": false, "error": message})
}
