// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleJoin adds the caller to the group's members.
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

	if err := h.Groups.AddMember(ctx, id, uid); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("groups: member joined", zap.String("group_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "joined group", nil)
}

// HandleLeave removes the caller from the group's members.
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

	if err := h.Groups.RemoveMember(ctx, id, uid); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "left group", nil)
}
