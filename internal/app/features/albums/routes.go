// internal/app/features/albums/routes.go
package albums

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
	})

	return r
}
