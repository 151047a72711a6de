// internal/app/features/auth/routes.go
package auth

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
