// Package memory provides in-memory implementations of the storage
// ports. They back the test suite and local development without a
// Postgres instance, and mirror the SQL adapters' contracts exactly.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/models"
)

type chunkKey struct {
	sourceType string
	sourceID   string
	language   string
	chunkIndex int
}

// VectorStore is a mutex-guarded in-memory embedding index using exact
// cosine distance.
type VectorStore struct {
	mu     sync.RWMutex
	chunks map[chunkKey]models.EmbeddingChunk
	now    func() time.Time
}

func NewVectorStore() *VectorStore {
	return &VectorStore{
		chunks: make(map[chunkKey]models.EmbeddingChunk),
		now:    time.Now,
	}
}

// SetClock overrides the store clock; tests use it to control
// updated_at stamps.
func (s *VectorStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *VectorStore) UpsertChunk(_ context.Context, chunk *models.EmbeddingChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := chunkKey{chunk.SourceType, chunk.SourceID, chunk.Language, chunk.ChunkIndex}
	stored := *chunk
	if prev, ok := s.chunks[key]; ok {
		stored.ID = prev.ID
	} else if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.Embedding = append([]float32(nil), chunk.Embedding...)
	stored.UpdatedAt = s.now()
	s.chunks[key] = stored
	return nil
}

func (s *VectorStore) SearchChunks(_ context.Context, queryVec []float32, language string, limit int, threshold float64) ([]models.ChunkMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		match    models.ChunkMatch
		distance float64
	}
	var hits []scored
	for _, ch := range s.chunks {
		if ch.Language != language {
			continue
		}
		d := cosineDistance(queryVec, ch.Embedding)
		if d >= threshold {
			continue
		}
		hits = append(hits, scored{
			match: models.ChunkMatch{
				ID:         ch.ID,
				SourceType: ch.SourceType,
				SourceID:   ch.SourceID,
				Language:   ch.Language,
				ChunkText:  ch.ChunkText,
				Similarity: 1 - d,
			},
			distance: d,
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]models.ChunkMatch, len(hits))
	for i, h := range hits {
		out[i] = h.match
	}
	return out, nil
}

func (s *VectorStore) DeleteBySource(_ context.Context, sourceType, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.chunks {
		if key.sourceType == sourceType && key.sourceID == sourceID {
			delete(s.chunks, key)
		}
	}
	return nil
}

func (s *VectorStore) DeleteChunksFrom(_ context.Context, sourceType, sourceID, language string, fromIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.chunks {
		if key.sourceType == sourceType && key.sourceID == sourceID &&
			key.language == language && key.chunkIndex >= fromIndex {
			delete(s.chunks, key)
		}
	}
	return nil
}

func (s *VectorStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[chunkKey]models.EmbeddingChunk)
	return nil
}

func (s *VectorStore) ListSourceIDs(_ context.Context, sourceType string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for key := range s.chunks {
		if key.sourceType == sourceType && !seen[key.sourceID] {
			seen[key.sourceID] = true
			out = append(out, key.sourceID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *VectorStore) LastChunkUpdate(_ context.Context, sourceType, sourceID string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest time.Time
	found := false
	for key, ch := range s.chunks {
		if key.sourceType != sourceType || key.sourceID != sourceID {
			continue
		}
		found = true
		if ch.UpdatedAt.After(latest) {
			latest = ch.UpdatedAt
		}
	}
	return latest, found, nil
}

func (s *VectorStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *VectorStore) CountChunksByType(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]int{}
	for key := range s.chunks {
		out[key.sourceType]++
	}
	return out, nil
}

// ChunksBySource returns a source's chunks ordered by (language,
// chunk_index). Test helper; the SQL adapter has no equivalent.
func (s *VectorStore) ChunksBySource(sourceType, sourceID string) []models.EmbeddingChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.EmbeddingChunk
	for key, ch := range s.chunks {
		if key.sourceType == sourceType && key.sourceID == sourceID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out
}

// cosineDistance is 1 - cos(a, b). Zero-magnitude vectors are treated
// as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

var _ core.VectorStore = (*VectorStore)(nil)
