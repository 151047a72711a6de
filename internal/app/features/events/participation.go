// internal/app/features/events/participation.go
package events

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleJoin registers the caller as a participant. Joining an event
// inside a group requires standing in that group first.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
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

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if e.GroupID != nil {
		g, err := h.Groups.GetByID(ctx, *e.GroupID)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		if !g.IsAdministrator(uid) && !g.IsMember(uid) {
			httpjson.Error(w, apperr.New(apperr.Forbidden, "you must be a member of the group to join this event"))
			return
		}
	}

	if err := h.Events.AddParticipant(ctx, id, uid); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("events: participant joined", zap.String("event_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "joined event", nil)
}

// HandleLeave removes the caller from the participants.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Events.RemoveParticipant(ctx, id, uid); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "left event", nil)
}
