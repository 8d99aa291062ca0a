package models

import (
	"time"
)

// Source types of embeddable content. These double as the `source_type`
// discriminator on embedding rows.
const (
	SourceTypeProject    = "project"
	SourceTypeBlog       = "blog"
	SourceTypeProfile    = "profile"
	SourceTypeExperience = "experience"
)

// SourceTypes lists every embeddable content type in a fixed order.
var SourceTypes = []string{SourceTypeProject, SourceTypeBlog, SourceTypeProfile, SourceTypeExperience}

// Entity is a translatable record from the source-of-truth store
// (project, blog post, profile or work experience). The embedding layer
// treats the record itself as opaque: identity, publish status, update
// time, and a set of per-language translations.
type Entity struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Status       string        `json:"status"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Translations []Translation `json:"translations"` // stored order; fallback resolution depends on it
}

// Translation is the localized text surface of an entity. Field names
// differ per entity type (a project has short/full descriptions, a blog
// post has description/content), so values are keyed by column name and
// mapped to title/description/content by the sync engine's field table.
type Translation struct {
	Language string            `json:"language"`
	Fields   map[string]string `json:"fields"`
}

// EmbeddingChunk is one embedded segment of a translation, keyed by
// (source_type, source_id, language, chunk_index). Chunks are written
// only by the sync engine and replaced wholesale on re-sync.
type EmbeddingChunk struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	Language   string    `json:"language"`
	ChunkIndex int       `json:"chunk_index"`
	ChunkText  string    `json:"chunk_text"`
	Embedding  []float32 `json:"-"` // pgvector column
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChunkMatch is one similarity-search hit.
type ChunkMatch struct {
	ID         string  `json:"id"`
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id"`
	Language   string  `json:"language"`
	ChunkText  string  `json:"chunk_text"`
	Similarity float64 `json:"similarity"`
}

// Sync freshness of an entity relative to its stored chunks.
const (
	SyncStateMissing  = "missing"
	SyncStateOutdated = "outdated"
	SyncStateSynced   = "synced"
)

// SyncStatus is the per-entity freshness report shown on the admin
// dashboard.
type SyncStatus struct {
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
	Title           string    `json:"title"`
	State           string    `json:"state"` // missing | outdated | synced
	EntityUpdatedAt time.Time `json:"entity_updated_at"`
	ChunksUpdatedAt time.Time `json:"chunks_updated_at,omitzero"`
}
