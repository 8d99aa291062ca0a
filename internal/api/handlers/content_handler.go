package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/i18n"
)

// ContentHandler serves localized views of single entities to the page
// renderer.
type ContentHandler struct {
	content  core.ContentStore
	resolver *i18n.Resolver
}

func NewContentHandler(content core.ContentStore, resolver *i18n.Resolver) *ContentHandler {
	return &ContentHandler{content: content, resolver: resolver}
}

type localizedEntityResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Status    string            `json:"status"`
	Language  string            `json:"language"`
	Fields    map[string]string `json:"fields"`
	Fallback  bool              `json:"fallback"`
	UpdatedAt string            `json:"updated_at"`
}

// GetLocalized returns one entity resolved for the lang query param.
// A missing translation falls back per the resolver rule; an entity
// with no translations at all is a 404.
func (h *ContentHandler) GetLocalized(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceType := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")
	lang := r.URL.Query().Get("lang")

	entity, err := h.content.FindEntityByID(ctx, sourceType, id)
	if err != nil {
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}
	if entity == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	tr := h.resolver.Resolve(entity, lang)
	if tr == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	_ = json.NewEncoder(w).Encode(localizedEntityResponse{
		ID:        entity.ID,
		Type:      entity.Type,
		Status:    entity.Status,
		Language:  tr.Language,
		Fields:    tr.Fields,
		Fallback:  tr.Language != lang,
		UpdatedAt: entity.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
