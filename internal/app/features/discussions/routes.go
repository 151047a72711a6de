// internal/app/features/discussions/routes.go
package discussions

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Post("/", h.HandleCreate)
		pr.Get("/group/{groupID}", h.HandleGetByGroup)
		pr.Get("/event/{eventID}", h.HandleGetByEvent)

		pr.Get("/{id}", h.HandleGet)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/messages", h.HandleAddMessage)
		pr.Patch("/{id}/messages/{messageID}", h.HandleUpdateMessage)
		pr.Delete("/{id}/messages/{messageID}", h.HandleDeleteMessage)
		pr.Post("/{id}/messages/{messageID}/replies", h.HandleAddReply)
	})

	return r
}
