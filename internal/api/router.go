package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/goalpost/internal/api/middleware"
)

// NewRouter builds the ops router. The trigger routes are only registered
// when opsToken is non-empty.
func NewRouter(h *OpsHandler, opsToken string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(log))

	r.Get("/health", h.Health)
	r.Get("/status", h.Status)

	if opsToken != "" {
		auth := apiMiddleware.NewOpsTokenAuth(opsToken)
		r.Route("/ops", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/dispatch/{slot}", h.TriggerDispatch)
			r.Post("/reset", h.TriggerReset)
		})
	}

	return r
}
