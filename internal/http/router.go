package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"repoqa/internal/handlers"
	"repoqa/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	QAService service.QAService
	// BaseCtx bounds background work started by requests, such as re-indexing.
	BaseCtx context.Context
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	baseCtx := deps.BaseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", handlers.NewAskHandler(deps.QAService))
		r.Method(http.MethodPost, "/index", handlers.NewIndexHandler(baseCtx, deps.QAService))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.QAService))
		r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.QAService))
	})

	return r
}
