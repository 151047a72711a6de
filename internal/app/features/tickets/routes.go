// internal/app/features/tickets/routes.go
package tickets

import (
	sysauth "github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, mw *sysauth.Middleware) chi.Router {
	r := chi.NewRouter()

	// Buyer-facing: no account required.
	r.Post("/purchase", h.HandlePurchase)
	r.Post("/{id}/cancel", h.HandleCancel)
	r.Get("/types/event/{eventID}", h.HandleListTypes)

	// Organizer-facing.
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)

		pr.Post("/types/event/{eventID}", h.HandleCreateType)
		pr.Patch("/types/{id}", h.HandleUpdateType)
		pr.Delete("/types/{id}", h.HandleDeleteType)

		pr.Get("/number/{number}", h.HandleGetByNumber)
		pr.Post("/{id}/use", h.HandleUse)
		pr.Get("/event/{eventID}", h.HandleListByEvent)
		pr.Get("/event/{eventID}/stats", h.HandleStats)
	})

	return r
}
