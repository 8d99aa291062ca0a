package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mertkaraca/folio/internal/config"
	db "github.com/mertkaraca/folio/internal/core/database"
	"github.com/mertkaraca/folio/internal/core/llm"
	"github.com/mertkaraca/folio/internal/i18n"
	"github.com/mertkaraca/folio/internal/retrieval"
	"github.com/mertkaraca/folio/internal/syncengine"
)

// App wires the storage, provider, engine and server layers together.
// All clients are constructed here and injected; nothing holds global
// state.
type App struct {
	DBClient  *db.Client
	Embedder  *llm.GeminiEmbedder
	LLM       *llm.GeminiLLM
	Engine    *syncengine.Engine
	Retriever *retrieval.Retriever
	Server    *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewClient(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.Info().Msg("database initialized and ready")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel, cfg.EmbedDim)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("embedder: %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("llm: %w", err)
	}

	resolver := i18n.NewResolver(cfg.DefaultLanguage)

	engine := syncengine.New(dbClient, dbClient, embedder, resolver, syncengine.Config{
		EmbedRetries: 2,
	})

	retriever := retrieval.New(dbClient, embedder)

	server := NewServer(cfg, dbClient, resolver, engine, retriever, llmProvider)

	return &App{
		DBClient:  dbClient,
		Embedder:  embedder,
		LLM:       llmProvider,
		Engine:    engine,
		Retriever: retriever,
		Server:    server,
	}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
