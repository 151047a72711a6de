// internal/app/features/tickets/types.go
package tickets

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	ticketstore "github.com/gatherhub/gatherhub/internal/app/store/tickets"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.uber.org/zap"
)

type typeCreateRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Price         float64 `json:"price"`
	QuantityLimit int64   `json:"quantityLimit"`
}

// HandleCreateType creates a ticket type for the event in the URL;
// organizers only.
func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req typeCreateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	tt, err := h.Types.Create(ctx, models.TicketType{
		Name:          htmlsanitize.Plain(req.Name),
		Description:   htmlsanitize.Sanitize(req.Description),
		Price:         req.Price,
		QuantityLimit: req.QuantityLimit,
		EventID:       eventID,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("tickets: type created", zap.String("ticket_type_id", tt.ID.Hex()), zap.String("event_id", eventID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "ticket type created", tt)
}

// HandleListTypes lists an event's ticket types. Open to any caller so
// a purchase page can render without an account.
func (h *Handler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	types, err := h.Types.ListByEvent(ctx, eventID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", types)
}

type typeUpdateRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	QuantityLimit *int64   `json:"quantityLimit,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

// HandleUpdateType edits a ticket type; organizers only.
func (h *Handler) HandleUpdateType(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req typeUpdateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveTicketType(ctx, uid, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	if req.Name != nil {
		cleaned := htmlsanitize.Plain(*req.Name)
		req.Name = &cleaned
	}
	if req.Description != nil {
		cleaned := htmlsanitize.Sanitize(*req.Description)
		req.Description = &cleaned
	}

	tt, err := h.Types.Update(ctx, id, ticketstore.TypePatch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		QuantityLimit: req.QuantityLimit,
		IsActive:      req.IsActive,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ticket type updated", tt)
}

// HandleDeleteType removes a ticket type; organizers only, and only
// while nothing has been sold.
func (h *Handler) HandleDeleteType(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveTicketType(ctx, uid, id); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Types.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("tickets: type deleted", zap.String("ticket_type_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "ticket type deleted", nil)
}
