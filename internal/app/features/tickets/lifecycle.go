// internal/app/features/tickets/lifecycle.go
package tickets

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type purchaseRequest struct {
	TicketTypeID string           `json:"ticketTypeId"`
	BuyerInfo    models.BuyerInfo `json:"buyerInfo"`
}

// HandlePurchase sells a ticket. No account is needed; the buyer is
// identified by the contact details in the request.
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	typeID, err := shared.ObjectIDFromHex(req.TicketTypeID, "ticketTypeId")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	t, err := h.Tickets.Purchase(ctx, typeID, req.BuyerInfo)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("tickets: purchased",
		zap.String("ticket_id", t.ID.Hex()),
		zap.String("ticket_number", t.TicketNumber),
		zap.String("event_id", t.EventID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "ticket purchased", t)
}

// requireOrganizer checks the caller organizes the ticket's event.
func (h *Handler) requireOrganizer(ctx context.Context, w http.ResponseWriter, r *http.Request, t models.Ticket) bool {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return false
	}
	if _, err := h.Resolver.ResolveEvent(ctx, uid, t.EventID, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return false
	}
	return true
}

// HandleGetByNumber looks a ticket up by its printed number for
// check-in; organizers only.
func (h *Handler) HandleGetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tickets.GetByNumber(ctx, number)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !h.requireOrganizer(ctx, w, r, t) {
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", t)
}

// HandleUse marks a ticket as consumed at the door; organizers only.
// An already-used ticket answers with its original used_at so the door
// staff can see when it was first scanned.
func (h *Handler) HandleUse(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !h.requireOrganizer(ctx, w, r, existing) {
		return
	}

	t, err := h.Tickets.Use(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.AlreadyInTerminalState) && t.UsedAt != nil {
			httpjson.ErrorData(w, err, map[string]any{"used_at": t.UsedAt})
			return
		}
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("tickets: used", zap.String("ticket_id", id.Hex()))
	httpjson.Respond(w, http.StatusOK, "ticket used", t)
}

type cancelRequest struct {
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

// HandleCancel voids a ticket and frees its inventory unit. The caller
// must present the buyer email the ticket was purchased with.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req cancelRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if text.Fold(req.Email) != existing.BuyerInfo.Email {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "the email does not match the ticket's buyer"))
		return
	}

	t, err := h.Tickets.Cancel(ctx, id, req.Reason)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("tickets: cancelled", zap.String("ticket_id", id.Hex()))
	httpjson.Respond(w, http.StatusOK, "ticket cancelled", t)
}

// HandleListByEvent pages an event's tickets; organizers only.
func (h *Handler) HandleListByEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	tickets, total, err := h.Tickets.ListByEvent(ctx, eventID, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", tickets, page.Meta(total))
}

// HandleStats summarizes an event's sales; organizers only.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	stats, err := h.Tickets.Stats(ctx, eventID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", stats)
}
