package syncengine_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertkaraca/folio/internal/chunker"
	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/core/database/memory"
	"github.com/mertkaraca/folio/internal/i18n"
	"github.com/mertkaraca/folio/internal/models"
	"github.com/mertkaraca/folio/internal/retrieval"
	"github.com/mertkaraca/folio/internal/syncengine"
)

// fakeEmbedder returns a fixed unit vector for every text, with
// optional per-text failure injection.
type fakeEmbedder struct {
	mu       sync.Mutex
	failures map[string]int // text -> failing call count; -1 fails forever
	calls    map[string]int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{failures: map[string]int{}, calls: map[string]int{}}
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[text]++
	if n, ok := f.failures[text]; ok && (n == -1 || f.calls[text] <= n) {
		return nil, &core.EmbeddingError{Op: "injected failure"}
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) callCount(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[text]
}

type failingUpsertStore struct {
	*memory.VectorStore
	err error
}

func (s *failingUpsertStore) UpsertChunk(context.Context, *models.EmbeddingChunk) error {
	return s.err
}

func newEngine(content *memory.ContentStore, vectors core.VectorStore, embedder core.EmbeddingProvider, maxChunkSize int) *syncengine.Engine {
	return syncengine.New(content, vectors, embedder, i18n.NewResolver("en"), syncengine.Config{
		MaxChunkSize: maxChunkSize,
		EmbedRetries: 2,
		RetryBackoff: time.Millisecond,
	})
}

func translation(lang, title, description, content string) models.Translation {
	return models.Translation{
		Language: lang,
		Fields: map[string]string{
			"title":       title,
			"description": description,
			"content":     content,
		},
	}
}

func TestSyncSingleProjectEndToEnd(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	content.Put(models.Entity{
		ID:        "project-1",
		Type:      models.SourceTypeProject,
		Status:    "Completed",
		UpdatedAt: time.Now(),
		Translations: []models.Translation{{
			Language: "en",
			Fields: map[string]string{
				"title":             "Portfolio Site",
				"short_description": "A site",
				"full_description":  strings.Repeat("portfolio ", 250), // 2500 chars
			},
		}},
	})

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeProject, "project-1"))

	chunks := vectors.ChunksBySource(models.SourceTypeProject, "project-1")
	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, models.SourceTypeProject, ch.SourceType)
		assert.Equal(t, "en", ch.Language)
		assert.LessOrEqual(t, len(ch.ChunkText), 1000)
	}

	retriever := retrieval.New(vectors, embedder)
	results, err := retriever.Retrieve(ctx, "portfolio", "en", 1, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "project-1", results[0].SourceID)
}

func TestSyncSingleDraftBlogRemovesChunks(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	content.Put(models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "draft",
		Translations: []models.Translation{translation("en", "Post", "Desc", "Body text")},
	})

	// Chunks from an earlier sync while the post was published.
	require.NoError(t, vectors.UpsertChunk(ctx, &models.EmbeddingChunk{
		SourceType: models.SourceTypeBlog, SourceID: "blog-1", Language: "en",
		ChunkIndex: 0, ChunkText: "stale", Embedding: []float32{1, 0, 0},
	}))

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))

	assert.Empty(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"))
}

func TestSyncSingleReplaceDropsStaleTail(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	long := models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{translation("en", "Post", "Desc", strings.Repeat("word ", 500))},
	}
	content.Put(long)

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))
	require.Greater(t, len(vectors.ChunksBySource(models.SourceTypeBlog, "blog-1")), 1)

	short := long
	short.Translations = []models.Translation{translation("en", "Post", "Desc", "tiny body")}
	content.Put(short)

	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))

	chunks := vectors.ChunksBySource(models.SourceTypeBlog, "blog-1")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
}

func TestSyncSingleMissingEntityIsNoop(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	require.NoError(t, vectors.UpsertChunk(ctx, &models.EmbeddingChunk{
		SourceType: models.SourceTypeBlog, SourceID: "gone", Language: "en",
		ChunkIndex: 0, ChunkText: "stale", Embedding: []float32{1, 0, 0},
	}))

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "gone"))
	assert.Empty(t, vectors.ChunksBySource(models.SourceTypeBlog, "gone"))
}

func TestSyncSingleUnknownTypeFails(t *testing.T) {
	engine := newEngine(memory.NewContentStore(), memory.NewVectorStore(), newFakeEmbedder(), 1000)
	assert.Error(t, engine.SyncSingle(context.Background(), "banana", "x"))
}

func TestSyncSingleSkipsNonEmbeddingLanguages(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	content.Put(models.Entity{
		ID:     "blog-1",
		Type:   models.SourceTypeBlog,
		Status: "published",
		Translations: []models.Translation{
			translation("en", "Post", "Desc", "english body"),
			translation("de", "Beitrag", "Beschreibung", "deutscher text"),
			translation("tr", "Yazı", "Açıklama", "türkçe içerik"),
		},
	})

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))

	langs := map[string]bool{}
	for _, ch := range vectors.ChunksBySource(models.SourceTypeBlog, "blog-1") {
		langs[ch.Language] = true
	}
	assert.Equal(t, map[string]bool{"en": true, "tr": true}, langs)
}

func TestSyncAllClearsRemovedTranslationPartition(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	both := models.Entity{
		ID:     "blog-1",
		Type:   models.SourceTypeBlog,
		Status: "published",
		Translations: []models.Translation{
			translation("en", "Post", "Desc", "english body"),
			translation("tr", "Yazı", "Açıklama", "türkçe içerik"),
		},
	}
	content.Put(both)

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncAll(ctx))
	require.Len(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"), 2)

	onlyEN := both
	onlyEN.Translations = []models.Translation{translation("en", "Post", "Desc", "english body")}
	content.Put(onlyEN)

	require.NoError(t, engine.SyncAll(ctx))

	chunks := vectors.ChunksBySource(models.SourceTypeBlog, "blog-1")
	require.Len(t, chunks, 1)
	assert.Equal(t, "en", chunks[0].Language)
}

func TestSyncAllPrunesIneligibleSources(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	post := models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{translation("en", "Post", "Desc", "body")},
	}
	content.Put(post)

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncAll(ctx))
	require.NotEmpty(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"))

	// Unpublished since the last full sync.
	post.Status = "draft"
	content.Put(post)

	require.NoError(t, engine.SyncAll(ctx))
	assert.Empty(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"))
}

func TestSyncAllPrunesDeletedSources(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	content.Put(models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{translation("en", "Post", "Desc", "body")},
	})

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncAll(ctx))

	content.Remove(models.SourceTypeBlog, "blog-1")
	require.NoError(t, engine.SyncAll(ctx))

	assert.Empty(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"))
}

func TestPerChunkEmbedFailureSkipsChunk(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	tr := translation("en", "Post", "Desc", strings.Repeat("word ", 40))
	content.Put(models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{tr},
	})

	// Recompute the chunking the engine will do and fail the second
	// chunk permanently.
	composite := fmt.Sprintf("Title: %s\nDescription: %s\nContent: %s",
		tr.Fields["title"], tr.Fields["description"], tr.Fields["content"])
	chunks := chunker.Chunk(composite, 50)
	require.Greater(t, len(chunks), 2)
	embedder.failures[chunks[1]] = -1

	engine := newEngine(content, vectors, embedder, 50)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))

	stored := vectors.ChunksBySource(models.SourceTypeBlog, "blog-1")
	require.Len(t, stored, len(chunks)-1)
	for _, ch := range stored {
		assert.NotEqual(t, 1, ch.ChunkIndex, "failed chunk must be absent")
	}
}

func TestEmbedRetryRecoversTransientFailure(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := memory.NewVectorStore()
	embedder := newFakeEmbedder()

	tr := translation("en", "Post", "Desc", "short body")
	content.Put(models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{tr},
	})

	composite := fmt.Sprintf("Title: %s\nDescription: %s\nContent: %s",
		tr.Fields["title"], tr.Fields["description"], tr.Fields["content"])
	chunks := chunker.Chunk(composite, 1000)
	require.Len(t, chunks, 1)
	embedder.failures[chunks[0]] = 2 // fails twice, third attempt succeeds

	engine := newEngine(content, vectors, embedder, 1000)
	require.NoError(t, engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1"))

	assert.Len(t, vectors.ChunksBySource(models.SourceTypeBlog, "blog-1"), 1)
	assert.Equal(t, 3, embedder.callCount(chunks[0]))
}

func TestStorageFailureAbortsSync(t *testing.T) {
	ctx := context.Background()
	content := memory.NewContentStore()
	vectors := &failingUpsertStore{
		VectorStore: memory.NewVectorStore(),
		err:         errors.New("connection lost"),
	}
	embedder := newFakeEmbedder()

	content.Put(models.Entity{
		ID:           "blog-1",
		Type:         models.SourceTypeBlog,
		Status:       "published",
		Translations: []models.Translation{translation("en", "Post", "Desc", "body")},
	})

	engine := newEngine(content, vectors, embedder, 1000)
	err := engine.SyncSingle(ctx, models.SourceTypeBlog, "blog-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection lost")
}
