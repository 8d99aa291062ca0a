package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/retrieval"
)

// ChatHandler answers visitor questions about the portfolio, grounded
// on retrieved content chunks.
type ChatHandler struct {
	retriever *retrieval.Retriever
	llm       core.LLMProvider
}

func NewChatHandler(retriever *retrieval.Retriever, llm core.LLMProvider) *ChatHandler {
	return &ChatHandler{retriever: retriever, llm: llm}
}

type chatRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

const chatSystemPrompt = "You are the assistant of a personal portfolio site. " +
	"Answer using only the provided context about the owner's projects, blog posts, profile and work history. " +
	"If the context does not cover the question, say you don't have that information."

func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	// Retrieval degrades to an empty context on failure; the chat still
	// answers, it just has nothing to ground on.
	results, _ := h.retriever.Retrieve(ctx, req.Query, req.Language, 0, 0)

	var sb strings.Builder
	for _, res := range results {
		sb.WriteString(res.ChunkText)
		sb.WriteString("\n---\n")
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", sb.String(), req.Query)
	answer, err := h.llm.Generate(ctx, chatSystemPrompt, userPrompt)
	if err != nil {
		http.Error(w, "answer generation failed", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"answer":  answer,
		"sources": len(results),
	})
}
