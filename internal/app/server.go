package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/mertkaraca/folio/internal/api/handlers"
	appMiddleware "github.com/mertkaraca/folio/internal/api/middlewares"
	"github.com/mertkaraca/folio/internal/config"
	"github.com/mertkaraca/folio/internal/core"
	"github.com/mertkaraca/folio/internal/i18n"
	"github.com/mertkaraca/folio/internal/retrieval"
	"github.com/mertkaraca/folio/internal/syncengine"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

type storage interface {
	core.ContentStore
	core.VectorStore
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, store storage, resolver *i18n.Resolver, engine *syncengine.Engine, retriever *retrieval.Retriever, llm core.LLMProvider) *Server {
	authHandler := handlers.NewAuthHandler(cfg)
	contentHandler := handlers.NewContentHandler(store, resolver)
	searchHandler := handlers.NewSearchHandler(retriever)
	chatHandler := handlers.NewChatHandler(retriever, llm)
	embeddingsHandler := handlers.NewEmbeddingsHandler(engine, store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		api.Post("/login", authHandler.Login)
		api.Get("/content/{type}/{id}", contentHandler.GetLocalized)
		api.Post("/search", searchHandler.Search)
		api.Post("/chat/query", chatHandler.Query)

		// protected admin endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))
			protected.Post("/embeddings/sync", embeddingsHandler.SyncAll)
			protected.Post("/embeddings/sync/{type}/{id}", embeddingsHandler.SyncSingle)
			protected.Get("/embeddings/stats", embeddingsHandler.Stats)
			protected.Get("/embeddings/status/{type}", embeddingsHandler.Status)
			protected.Delete("/embeddings/{type}/{id}", embeddingsHandler.DeleteSource)
			protected.Delete("/embeddings", embeddingsHandler.DeleteAll)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
