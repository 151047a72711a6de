// internal/app/features/users/routes.go
package users

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Get("/search", h.HandleSearch)
		pr.Patch("/me", h.HandleUpdateMe)
		pr.Delete("/me", h.HandleDeleteMe)
		pr.Get("/{id}", h.HandleGet)
	})

	return r
}
