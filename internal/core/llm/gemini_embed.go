package llm

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mertkaraca/folio/internal/core"
)

// embedTimeout bounds a single provider round-trip. Expiry surfaces as
// a core.EmbeddingError like any other provider failure.
const embedTimeout = 30 * time.Second

// GeminiEmbedder embeds text through the Gemini embedding API. It is
// constructed once at startup and injected wherever embeddings are
// needed; there is no process-wide client.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
	dimension int
}

// NewGeminiEmbedder builds the embedder. dimension > 0 enables strict
// response-dimension validation.
func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, dimension int) (*GeminiEmbedder, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{client: cl, modelName: modelName, dimension: dimension}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// EmbedText returns the embedding vector for one text. Any transport
// failure or malformed response (empty vector, wrong dimensionality)
// wraps into core.EmbeddingError.
func (g *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	em := g.client.EmbeddingModel(g.modelName)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &core.EmbeddingError{Op: "embed content", Err: err}
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, &core.EmbeddingError{Op: "empty embedding response"}
	}
	vec := resp.Embedding.Values
	if g.dimension > 0 && len(vec) != g.dimension {
		return nil, &core.EmbeddingError{
			Op: "unexpected embedding dimension",
		}
	}
	return vec, nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
