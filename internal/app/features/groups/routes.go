// internal/app/features/groups/routes.go
package groups

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}", h.HandleGet)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)
	})

	return r
}
