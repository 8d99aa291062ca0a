package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mertkaraca/folio/internal/retrieval"
)

// SearchHandler exposes semantic retrieval over the embedded content.
type SearchHandler struct {
	retriever *retrieval.Retriever
}

func NewSearchHandler(retriever *retrieval.Retriever) *SearchHandler {
	return &SearchHandler{retriever: retriever}
}

type searchRequest struct {
	Query     string  `json:"query"`
	Language  string  `json:"language"`
	Limit     int     `json:"limit,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

type searchResponse struct {
	Results []retrieval.Result `json:"results"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := h.retriever.Retrieve(r.Context(), req.Query, req.Language, req.Limit, req.Threshold)
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []retrieval.Result{}
	}
	_ = json.NewEncoder(w).Encode(searchResponse{Results: results})
}
