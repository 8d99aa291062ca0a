// Package retrieval embeds a query and fetches the nearest content
// chunks for a language partition. It grounds the chat feature, so it
// degrades to empty results instead of failing the caller.
package retrieval

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/i18n"
)

const (
	// DefaultLimit caps results when the caller does not specify one.
	DefaultLimit = 5
	// DefaultThreshold is the cosine-distance cutoff; rows at or beyond
	// it never rank.
	DefaultThreshold = 0.5
)

// Retriever is the search facade over the vector store. It must share
// its embedding provider with the sync engine: query and index vectors
// have to live in the same embedding space.
type Retriever struct {
	vectors  core.VectorStore
	embedder core.EmbeddingProvider
}

func New(vectors core.VectorStore, embedder core.EmbeddingProvider) *Retriever {
	return &Retriever{vectors: vectors, embedder: embedder}
}

// Result is one ranked retrieval hit.
type Result struct {
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id"`
	Language   string  `json:"language"`
	ChunkText  string  `json:"chunk_text"`
	Similarity float64 `json:"similarity"`
}

// Retrieve embeds queryText and returns the nearest chunks within the
// normalized language partition. limit <= 0 and threshold <= 0 take the
// defaults. Provider or storage failures are logged and produce an
// empty result set: for the caller that is indistinguishable from "no
// relevant content", which is exactly how grounding failures should
// degrade.
func (r *Retriever) Retrieve(ctx context.Context, queryText, language string, limit int, threshold float64) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	lang := i18n.NormalizeEmbeddingLanguage(language)

	queryVec, err := r.embedder.EmbedText(ctx, queryText)
	if err != nil {
		log.Error().Err(err).Str("language", lang).Msg("retrieval: query embedding failed")
		return nil, nil
	}

	matches, err := r.vectors.SearchChunks(ctx, queryVec, lang, limit, threshold)
	if err != nil {
		log.Error().Err(err).Str("language", lang).Msg("retrieval: vector search failed")
		return nil, nil
	}

	out := make([]Result, len(matches))
	for i, m := range matches {
		out[i] = Result{
			SourceType: m.SourceType,
			SourceID:   m.SourceID,
			Language:   m.Language,
			ChunkText:  m.ChunkText,
			Similarity: m.Similarity,
		}
	}
	return out, nil
}
