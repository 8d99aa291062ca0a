package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/syncengine"
)

// EmbeddingsHandler is the admin surface over the embedding index:
// trigger syncs, read counts and freshness, delete chunks.
type EmbeddingsHandler struct {
	engine  *syncengine.Engine
	vectors core.VectorStore
}

func NewEmbeddingsHandler(engine *syncengine.Engine, vectors core.VectorStore) *EmbeddingsHandler {
	return &EmbeddingsHandler{engine: engine, vectors: vectors}
}

// SyncAll re-embeds all eligible content and prunes stale sources.
// Safe to re-trigger after a failure; both sync entry points are
// idempotent.
func (h *EmbeddingsHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.SyncAll(r.Context()); err != nil {
		log.Error().Err(err).Msg("admin: full sync failed")
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// SyncSingle resets one source's chunks from its current content.
func (h *EmbeddingsHandler) SyncSingle(w http.ResponseWriter, r *http.Request) {
	sourceType := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	if err := h.engine.SyncSingle(r.Context(), sourceType, id); err != nil {
		log.Error().Err(err).Str("source_type", sourceType).Str("source_id", id).
			Msg("admin: single sync failed")
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statsResponse struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

func (h *EmbeddingsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.vectors.CountChunks(ctx)
	if err != nil {
		http.Error(w, "stats failed", http.StatusInternalServerError)
		return
	}
	byType, err := h.vectors.CountChunksByType(ctx)
	if err != nil {
		http.Error(w, "stats failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(statsResponse{Total: total, ByType: byType})
}

// Status lists per-entity sync freshness for one source type.
func (h *EmbeddingsHandler) Status(w http.ResponseWriter, r *http.Request) {
	sourceType := chi.URLParam(r, "type")

	statuses, err := h.engine.Status(r.Context(), sourceType)
	if err != nil {
		http.Error(w, "status failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"statuses": statuses})
}

// DeleteSource removes every chunk of one source.
func (h *EmbeddingsHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	sourceType := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	if err := h.vectors.DeleteBySource(r.Context(), sourceType, id); err != nil {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// DeleteAll clears the whole index. Administrative reset; a SyncAll
// rebuilds it.
func (h *EmbeddingsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.vectors.DeleteAll(r.Context()); err != nil {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
