// Package syncengine keeps the vector-embedding index consistent with
// the source-of-truth content store. It owns the decision of what
// should exist in the index; the vector store owns the physical rows.
package syncengine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mertkaraca/folio/internal/chunker"
	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/i18n"
	"github.com/mertkaraca/folio/internal/models"
)

// Config tunes the engine.
//
// MaxChunkSize: chunk bound in characters.
// EmbedRetries: extra attempts per chunk after the first failure.
// RetryBackoff: wait before the first retry, doubled per attempt.
// Concurrency:  concurrent embed+upsert calls per translation.
type Config struct {
	MaxChunkSize int
	EmbedRetries int
	RetryBackoff time.Duration
	Concurrency  int
}

func (c *Config) applyDefaults() {
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = chunker.DefaultMaxChunkSize
	}
	if c.EmbedRetries < 0 {
		c.EmbedRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 250 * time.Millisecond
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
}

// Engine synchronizes translations into the embedding index.
type Engine struct {
	content  core.ContentStore
	vectors  core.VectorStore
	embedder core.EmbeddingProvider
	resolver *i18n.Resolver
	cfg      Config
}

func New(content core.ContentStore, vectors core.VectorStore, embedder core.EmbeddingProvider, resolver *i18n.Resolver, cfg Config) *Engine {
	cfg.applyDefaults()
	if resolver == nil {
		resolver = i18n.NewResolver("")
	}
	return &Engine{
		content:  content,
		vectors:  vectors,
		embedder: embedder,
		resolver: resolver,
		cfg:      cfg,
	}
}

// SyncSingle is the authoritative per-entity reset: it drops every
// stored chunk of the source, then re-chunks and re-embeds whatever is
// currently eligible. A missing or ineligible entity therefore ends up
// with zero chunks, which is success, not an error. Idempotent; safe to
// re-invoke after any failure.
func (e *Engine) SyncSingle(ctx context.Context, sourceType, sourceID string) error {
	policy, err := policyFor(sourceType)
	if err != nil {
		return err
	}

	if err := e.vectors.DeleteBySource(ctx, sourceType, sourceID); err != nil {
		return fmt.Errorf("delete chunks for %s/%s: %w", sourceType, sourceID, err)
	}

	entity, err := e.content.FindEntityByID(ctx, sourceType, sourceID)
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", sourceType, sourceID, err)
	}
	if entity == nil {
		log.Info().Str("source_type", sourceType).Str("source_id", sourceID).
			Msg("sync: entity no longer exists, chunks removed")
		return nil
	}
	if !policy.eligible(entity) {
		return nil
	}

	return e.syncEntity(ctx, entity, policy)
}

// SyncAll refreshes the whole index: per source type it prunes sources
// that are no longer eligible (deleted, unpublished), then re-embeds
// every eligible entity. Idempotent.
func (e *Engine) SyncAll(ctx context.Context) error {
	for _, sourceType := range models.SourceTypes {
		policy, err := policyFor(sourceType)
		if err != nil {
			return err
		}

		entities, err := e.content.FindEntitiesByType(ctx, sourceType, true)
		if err != nil {
			return fmt.Errorf("load eligible %s entities: %w", sourceType, err)
		}

		if err := e.pruneStale(ctx, sourceType, entities); err != nil {
			return err
		}

		for i := range entities {
			if err := e.syncEntity(ctx, &entities[i], policy); err != nil {
				return err
			}
		}

		log.Info().Str("source_type", sourceType).Int("entities", len(entities)).
			Msg("sync: source type refreshed")
	}
	return nil
}

// pruneStale deletes chunks of sources that are stored but no longer in
// the eligible set, so unpublished or deleted content stops being
// searchable after a full sync.
func (e *Engine) pruneStale(ctx context.Context, sourceType string, eligible []models.Entity) error {
	stored, err := e.vectors.ListSourceIDs(ctx, sourceType)
	if err != nil {
		return fmt.Errorf("list stored %s sources: %w", sourceType, err)
	}

	keep := make(map[string]bool, len(eligible))
	for i := range eligible {
		keep[eligible[i].ID] = true
	}

	for _, id := range stored {
		if keep[id] {
			continue
		}
		if err := e.vectors.DeleteBySource(ctx, sourceType, id); err != nil {
			return fmt.Errorf("prune %s/%s: %w", sourceType, id, err)
		}
		log.Info().Str("source_type", sourceType).Str("source_id", id).
			Msg("sync: pruned ineligible source")
	}
	return nil
}

// syncEntity re-embeds every embeddable translation of one entity and
// clears stale partitions: chunk indices beyond the new chunk count,
// and embedding languages the entity no longer has a translation for.
func (e *Engine) syncEntity(ctx context.Context, entity *models.Entity, policy typePolicy) error {
	synced := map[string]bool{}

	for i := range entity.Translations {
		tr := &entity.Translations[i]
		if !i18n.IsEmbeddingLanguage(tr.Language) {
			continue
		}
		if err := e.syncTranslation(ctx, entity, policy, tr); err != nil {
			return err
		}
		synced[tr.Language] = true
	}

	// A translation that disappeared leaves its whole partition stale.
	for _, lang := range i18n.EmbeddingLanguages {
		if synced[lang] {
			continue
		}
		if err := e.vectors.DeleteChunksFrom(ctx, entity.Type, entity.ID, lang, 0); err != nil {
			return fmt.Errorf("clear %s chunks for %s/%s: %w", lang, entity.Type, entity.ID, err)
		}
	}
	return nil
}

// syncTranslation chunks, embeds and upserts one translation. Chunk
// indices are assigned by position before any goroutine runs, so
// parallel upserts cannot reorder them. Embedding failures skip the
// chunk; storage failures abort the sync.
func (e *Engine) syncTranslation(ctx context.Context, entity *models.Entity, policy typePolicy, tr *models.Translation) error {
	text := policy.compositeText(*tr)
	chunks := chunker.Chunk(text, e.cfg.MaxChunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for idx, chunkText := range chunks {
		idx, chunkText := idx, chunkText
		g.Go(func() error {
			vec, err := e.embedWithRetry(gctx, chunkText)
			if err != nil {
				if core.IsEmbeddingError(err) {
					log.Error().Err(err).
						Str("source_type", entity.Type).
						Str("source_id", entity.ID).
						Str("language", tr.Language).
						Int("chunk_index", idx).
						Msg("sync: chunk embedding failed, skipping")
					return nil
				}
				return err
			}

			chunk := &models.EmbeddingChunk{
				SourceType: entity.Type,
				SourceID:   entity.ID,
				Language:   tr.Language,
				ChunkIndex: idx,
				ChunkText:  chunkText,
				Embedding:  vec,
			}
			if err := e.vectors.UpsertChunk(gctx, chunk); err != nil {
				return fmt.Errorf("upsert chunk %s/%s/%s[%d]: %w",
					entity.Type, entity.ID, tr.Language, idx, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Drop the stale tail left over from a longer previous generation.
	if err := e.vectors.DeleteChunksFrom(ctx, entity.Type, entity.ID, tr.Language, len(chunks)); err != nil {
		return fmt.Errorf("trim stale chunks for %s/%s/%s: %w", entity.Type, entity.ID, tr.Language, err)
	}
	return nil
}

// embedWithRetry calls the provider with bounded retries and doubling
// backoff. The terminal failure is returned for the caller to classify.
func (e *Engine) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	backoff := e.cfg.RetryBackoff
	var lastErr error

	for attempt := 0; attempt <= e.cfg.EmbedRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		vec, err := e.embedder.EmbedText(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
