package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mertkaraca/folio/internal/models"
)

// UpsertChunk writes one embedding row. The ON CONFLICT clause makes
// the write a single atomic insert-or-overwrite on the composite key,
// so concurrent writers can never race an existence check.
func (c *Client) UpsertChunk(ctx context.Context, chunk *models.EmbeddingChunk) error {
	if chunk == nil {
		return errors.New("nil chunk")
	}
	id := chunk.ID
	if id == "" {
		id = uuid.NewString()
	}
	const q = `
		INSERT INTO content_embeddings
			(id, source_type, source_id, language, chunk_index, chunk_text, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (source_type, source_id, language, chunk_index)
		DO UPDATE SET
			chunk_text = EXCLUDED.chunk_text,
			embedding  = EXCLUDED.embedding,
			updated_at = now()
	`
	vec := pgvector.NewVector(chunk.Embedding)
	_, err := c.db.ExecContext(ctx, q,
		id, chunk.SourceType, chunk.SourceID, chunk.Language, chunk.ChunkIndex, chunk.ChunkText, vec)
	return err
}

// SearchChunks runs a cosine-distance nearest-neighbor query inside one
// language partition. Rows at or beyond threshold are filtered out;
// similarity is 1 - distance.
func (c *Client) SearchChunks(ctx context.Context, queryVec []float32, language string, limit int, threshold float64) ([]models.ChunkMatch, error) {
	const q = `
		SELECT id, source_type, source_id, language, chunk_text, embedding <=> $1 AS distance
		FROM content_embeddings
		WHERE language = $2 AND embedding <=> $1 < $3
		ORDER BY distance ASC
		LIMIT $4
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, language, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChunkMatch
	for rows.Next() {
		var (
			m        models.ChunkMatch
			distance float64
		)
		if err := rows.Scan(&m.ID, &m.SourceType, &m.SourceID, &m.Language, &m.ChunkText, &distance); err != nil {
			return nil, err
		}
		m.Similarity = 1 - distance
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteBySource removes every chunk of one source, all languages and
// indices included.
func (c *Client) DeleteBySource(ctx context.Context, sourceType, sourceID string) error {
	const q = `DELETE FROM content_embeddings WHERE source_type = $1 AND source_id = $2`
	_, err := c.db.ExecContext(ctx, q, sourceType, sourceID)
	return err
}

// DeleteChunksFrom removes the stale tail of one (source, language)
// partition: every chunk whose index is >= fromIndex.
func (c *Client) DeleteChunksFrom(ctx context.Context, sourceType, sourceID, language string, fromIndex int) error {
	const q = `
		DELETE FROM content_embeddings
		WHERE source_type = $1 AND source_id = $2 AND language = $3 AND chunk_index >= $4
	`
	_, err := c.db.ExecContext(ctx, q, sourceType, sourceID, language, fromIndex)
	return err
}

// DeleteAll clears the entire index.
func (c *Client) DeleteAll(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM content_embeddings`)
	return err
}

// ListSourceIDs returns the distinct source ids stored for one type.
func (c *Client) ListSourceIDs(ctx context.Context, sourceType string) ([]string, error) {
	const q = `SELECT DISTINCT source_id FROM content_embeddings WHERE source_type = $1`
	rows, err := c.db.QueryContext(ctx, q, sourceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// LastChunkUpdate returns the newest chunk updated_at for one source;
// ok is false when the source has no chunks.
func (c *Client) LastChunkUpdate(ctx context.Context, sourceType, sourceID string) (time.Time, bool, error) {
	const q = `
		SELECT max(updated_at) FROM content_embeddings
		WHERE source_type = $1 AND source_id = $2
	`
	var t sql.NullTime
	if err := c.db.QueryRowContext(ctx, q, sourceType, sourceID).Scan(&t); err != nil {
		return time.Time{}, false, err
	}
	if !t.Valid {
		return time.Time{}, false, nil
	}
	return t.Time, true, nil
}

// CountChunks returns the total number of stored chunks.
func (c *Client) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM content_embeddings`).Scan(&n)
	return n, err
}

// CountChunksByType returns stored chunk counts grouped by source type.
func (c *Client) CountChunksByType(ctx context.Context) (map[string]int, error) {
	const q = `SELECT source_type, count(*) FROM content_embeddings GROUP BY source_type`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, rows.Err()
}
