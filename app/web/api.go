package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/kingcrab/app/stats"
	"github.com/umputun/kingcrab/app/store"
)

// APIPostingsResponse is the JSON response for /api/v1/postings
type APIPostingsResponse struct {
	Query     string          `json:"query,omitempty"`
	Total     int             `json:"total"`
	Postings  []store.Posting `json:"postings"`
	Timestamp time.Time       `json:"timestamp"`
}

// APIStatsResponse is the JSON response for /api/v1/stats
type APIStatsResponse struct {
	stats.Summary
	Timestamp time.Time `json:"timestamp"`
}

// handleAPIPostings returns JSON list of postings, filtered by title if q is set
func (s *Server) handleAPIPostings(w http.ResponseWriter, r *http.Request) {
	query := s.newTemplateData(r).Query
	postings, err := s.search(r.Context(), query)
	if err != nil {
		s.writeJSONError(w, errorStatus(err), banner(err))
		return
	}

	s.writeJSON(w, http.StatusOK, APIPostingsResponse{
		Query:     query,
		Total:     len(postings),
		Postings:  postings,
		Timestamp: time.Now(),
	})
}

// handleAPIStats returns JSON statistics over all postings
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	postings, err := s.postings.List(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to load postings: %v", err)
		s.writeJSONError(w, errorStatus(err), banner(err))
		return
	}

	s.writeJSON(w, http.StatusOK, APIStatsResponse{
		Summary:   stats.Compute(postings, s.statsOpts),
		Timestamp: time.Now(),
	})
}

// handleAPIMarkdown returns search results as a markdown table
func (s *Server) handleAPIMarkdown(w http.ResponseWriter, r *http.Request) {
	postings, err := s.search(r.Context(), s.newTemplateData(r).Query)
	if err != nil {
		http.Error(w, banner(err), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markdownTable(postings))); err != nil {
		log.Printf("[WARN] failed to write markdown response: %v", err)
	}
}

// errorStatus maps backend error to http status
func errorStatus(err error) int {
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[WARN] failed to encode JSON error response: %v", err)
	}
}
