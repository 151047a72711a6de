// internal/app/features/discussions/crud.go
package discussions

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	GroupID *string `json:"groupId,omitempty"`
	EventID *string `json:"eventId,omitempty"`
}

// HandleCreate opens the discussion for a group or an event. Exactly
// one link must be given; group administrators and event organizers
// may open one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	if req.GroupID != nil && req.EventID != nil {
		httpjson.Error(w, apperr.New(apperr.InvalidArgument, "%s", models.ErrDiscussionBothLinks.Error()))
		return
	}
	if req.GroupID == nil && req.EventID == nil {
		httpjson.Error(w, apperr.New(apperr.InvalidArgument, "%s", models.ErrDiscussionNoLink.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var d models.Discussion
	if req.GroupID != nil {
		gid, err := primitive.ObjectIDFromHex(*req.GroupID)
		if err != nil {
			httpjson.Error(w, apperr.New(apperr.InvalidArgument, "invalid groupId"))
			return
		}
		if _, err := h.Resolver.ResolveGroup(ctx, uid, gid, capability.ActionManage); err != nil {
			httpjson.Error(w, err)
			return
		}
		d.LinkedToGroup = &gid
	} else {
		eid, err := primitive.ObjectIDFromHex(*req.EventID)
		if err != nil {
			httpjson.Error(w, apperr.New(apperr.InvalidArgument, "invalid eventId"))
			return
		}
		if _, err := h.Resolver.ResolveEvent(ctx, uid, eid, capability.ActionManage); err != nil {
			httpjson.Error(w, err)
			return
		}
		d.LinkedToEvent = &eid
	}

	created, err := h.Discussions.Create(ctx, d)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("discussions: created", zap.String("discussion_id", created.ID.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, "discussion created", created)
}

// HandleGet returns a discussion with its messages paged.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Resolver.ResolveDiscussion(ctx, uid, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	disc := *d.Discussion
	total := int64(len(disc.Messages))
	disc.Messages = paging.Slice(disc.Messages, page)
	httpjson.RespondPage(w, "ok", disc, page.Meta(total))
}

// HandleGetByGroup returns a group's discussion.
func (h *Handler) HandleGetByGroup(w http.ResponseWriter, r *http.Request) {
	h.getByParent(w, r, "groupID")
}

// HandleGetByEvent returns an event's discussion.
func (h *Handler) HandleGetByEvent(w http.ResponseWriter, r *http.Request) {
	h.getByParent(w, r, "eventID")
}

func (h *Handler) getByParent(w http.ResponseWriter, r *http.Request, param string) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	parentID, err := shared.ObjectIDParam(r, param)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var disc models.Discussion
	if param == "groupID" {
		disc, err = h.Discussions.GetByGroup(ctx, parentID)
	} else {
		disc, err = h.Discussions.GetByEvent(ctx, parentID)
	}
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	if _, err := h.Resolver.ResolveDiscussion(ctx, uid, disc.ID); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", disc)
}

// HandleDelete removes a discussion; only the parent's administrators
// or organizers may.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.Resolver.ResolveDiscussion(ctx, uid, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if d.Role != capability.RoleAdministrator && d.Role != capability.RoleOrganizer {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "you do not have permission to perform this action"))
		return
	}

	if err := h.Discussions.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "discussion deleted", nil)
}
