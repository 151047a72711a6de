// internal/app/features/photos/routes.go
package photos

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Post("/album/{albumID}", h.HandleCreate)
		pr.Get("/album/{albumID}", h.HandleListByAlbum)

		pr.Get("/{id}", h.HandleGet)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/comments", h.HandleAddComment)
		pr.Delete("/{id}/comments/{commentID}", h.HandleDeleteComment)
		pr.Post("/{id}/like", h.HandleToggleLike)
	})

	return r
}
