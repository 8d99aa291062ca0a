// Package core declares the ports between the content/embedding layers
// and their infrastructure, so higher layers never depend on a specific
// database or model provider.
package core

import (
	"context"
	"time"

	"github.com/mertkaraca/folio/internal/models"
)

// ContentStore reads translatable entities from the source-of-truth
// relational store. The embedding layer never writes back to it.
type ContentStore interface {
	// FindEntitiesByType returns all entities of one source type with
	// translations eagerly loaded. With eligibleOnly, the publish-state
	// filter is applied in the query itself.
	FindEntitiesByType(ctx context.Context, sourceType string, eligibleOnly bool) ([]models.Entity, error)

	// FindEntityByID returns one entity with translations, or nil when
	// it does not exist.
	FindEntityByID(ctx context.Context, sourceType, id string) (*models.Entity, error)
}

// VectorStore owns the physical embedding index. Upsert must be a
// single atomic insert-or-overwrite on the composite key; a separate
// existence check before insert is unsafe under concurrent writers.
type VectorStore interface {
	UpsertChunk(ctx context.Context, chunk *models.EmbeddingChunk) error

	// SearchChunks returns hits within the given language partition
	// whose cosine distance to queryVec is below threshold, ordered by
	// ascending distance, capped at limit. Similarity = 1 - distance.
	SearchChunks(ctx context.Context, queryVec []float32, language string, limit int, threshold float64) ([]models.ChunkMatch, error)

	// DeleteBySource removes every chunk of one source across all
	// languages and indices.
	DeleteBySource(ctx context.Context, sourceType, sourceID string) error

	// DeleteChunksFrom removes chunks of one (source, language) whose
	// index is >= fromIndex. The sync engine uses it to drop the stale
	// tail when a re-synced translation produces fewer chunks than the
	// previous generation.
	DeleteChunksFrom(ctx context.Context, sourceType, sourceID, language string, fromIndex int) error

	// DeleteAll clears the whole index.
	DeleteAll(ctx context.Context) error

	// ListSourceIDs returns the distinct source ids currently stored
	// for one source type.
	ListSourceIDs(ctx context.Context, sourceType string) ([]string, error)

	// LastChunkUpdate returns the newest chunk updated_at for one
	// source, ok=false when the source has no chunks.
	LastChunkUpdate(ctx context.Context, sourceType, sourceID string) (t time.Time, ok bool, err error)

	CountChunks(ctx context.Context) (int, error)
	CountChunksByType(ctx context.Context) (map[string]int, error)
}

// EmbeddingProvider turns text into fixed-dimension vectors. The same
// provider (and model) must serve both indexing and querying, or the
// embedding spaces will not match.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// LLMProvider generates a grounded answer for the chat feature.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
