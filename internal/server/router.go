package server

import (
	"net/http"

	"github.com/cloo-solutions/hackscout/internal/api"
	"github.com/cloo-solutions/hackscout/internal/api/handlers"
	"github.com/cloo-solutions/hackscout/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/analyze", func(r chi.Router) {
		r.Post("/", cfg.AnalysisHandler.Analyze)
		r.Post("/stream", cfg.AnalysisHandler.Stream)
	})
	r.Post("/posts", cfg.AnalysisHandler.GeneratePost)
	r.Post("/similarity", cfg.AnalysisHandler.Similarity)

	return r
}
