package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type searchResult struct {
	Source     string  `json:"source"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// handleChat answers a user question. Invalid input is the only 400
// path; provider and store trouble downstream still produces a 200
// with a user-presentable fallback answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	answer, err := s.svc.Ask(r.Context(), query)
	if err != nil {
		log.Printf("chat pipeline degraded for %q: %v", query, err)
	}

	if s.database != nil {
		if err := s.database.RecordChat(query, answer, time.Since(start)); err != nil {
			log.Printf("recording chat entry: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

// handleSearch exposes raw ranked retrieval for debugging and tuning.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	results, err := s.svc.Retrieve(r.Context(), query)
	if err != nil {
		log.Printf("search failed for %q: %v", query, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "retrieval failed"})
		return
	}

	out := make([]searchResult, 0, len(results))
	for _, res := range results {
		out = append(out, searchResult{
			Source:     string(res.Source),
			Title:      res.Title,
			Content:    res.Content,
			Similarity: res.Similarity,
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: out})
}

// handleRebuilds lists recent index rebuild reports from the ops store.
func (s *Server) handleRebuilds(w http.ResponseWriter, r *http.Request) {
	if s.database == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "rebuild history not available"})
		return
	}

	reports, err := s.database.ListRebuilds(20)
	if err != nil {
		log.Printf("listing rebuilds: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing rebuilds failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rebuilds": reports})
}

// decodeQuery parses and validates the query body shared by the chat
// and search endpoints. On failure it writes a 400 and returns false.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return "", false
	}
	if utf8.RuneCountInString(query) > s.cfg.MaxQueryLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query too long"})
		return "", false
	}
	return query, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
