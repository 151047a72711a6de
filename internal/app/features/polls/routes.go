// internal/app/features/polls/routes.go
package polls

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Post("/event/{eventID}", h.HandleCreate)
		pr.Get("/event/{eventID}", h.HandleListByEvent)

		pr.Get("/{id}", h.HandleGet)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/vote", h.HandleVote)
		pr.Get("/{id}/results", h.HandleResults)
	})

	return r
}
