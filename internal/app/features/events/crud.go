// internal/app/features/events/crud.go
package events

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	eventstore "github.com/gatherhub/gatherhub/internal/app/store/events"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Location    string     `json:"location,omitempty"`
	CoverPhoto  string     `json:"coverPhoto,omitempty"`
	IsPrivate   bool       `json:"isPrivate,omitempty"`
	GroupID     *string    `json:"groupId,omitempty"`
	Organizers  []string   `json:"organizers,omitempty"`
	HasTicketing bool      `json:"hasTicketing,omitempty"`
}

// organizerIDs parses the hex ids of a request's organizer list.
func organizerIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.New(apperr.InvalidArgument, "invalid organizer id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HandleCreate creates an event. When groupId is set the caller must be
// a group administrator, or a member if the group allows member events.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var groupID *primitive.ObjectID
	if req.GroupID != nil {
		gid, err := primitive.ObjectIDFromHex(*req.GroupID)
		if err != nil {
			httpjson.Error(w, apperr.New(apperr.InvalidArgument, "invalid groupId"))
			return
		}
		g, err := h.Groups.GetByID(ctx, gid)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		allowed := g.IsAdministrator(uid) || (g.AllowMemberEvents && g.IsMember(uid))
		if !allowed {
			httpjson.Error(w, apperr.New(apperr.Forbidden, "you cannot create events in this group"))
			return
		}
		groupID = &gid
	}

	organizers, err := organizerIDs(req.Organizers)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	e, err := h.Events.Create(ctx, models.Event{
		Name:         htmlsanitize.Plain(req.Name),
		Description:  htmlsanitize.Sanitize(req.Description),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Location:     req.Location,
		CoverPhoto:   req.CoverPhoto,
		IsPrivate:    req.IsPrivate,
		GroupID:      groupID,
		Organizers:   organizers,
		HasTicketing: req.HasTicketing,
	}, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("events: created", zap.String("event_id", e.ID.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, "event created", e)
}

// HandleList pages public events.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, total, err := h.Events.ListPublic(ctx, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", events, page.Meta(total))
}

// HandleListByGroup pages a group's events; group members only.
func (h *Handler) HandleListByGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	gid, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Resolver.ResolveGroup(ctx, uid, gid, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if d.Redacted {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "you do not have permission to perform this action"))
		return
	}

	events, total, err := h.Events.ListByGroup(ctx, gid, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", events, page.Meta(total))
}

// HandleGet returns one event.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Resolver.ResolveEvent(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", d.Event)
}

type updateRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsPrivate   *bool      `json:"isPrivate,omitempty"`
	CoverPhoto  *string    `json:"coverPhoto,omitempty"`
	Organizers  *[]string  `json:"organizers,omitempty"`
}

// HandleUpdate edits an event; organizers only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveEvent(ctx, uid, id, capability.ActionManage); err != nil {
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

	patch := eventstore.Patch{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPrivate:   req.IsPrivate,
		CoverPhoto:  req.CoverPhoto,
	}
	if req.Organizers != nil {
		ids, err := organizerIDs(*req.Organizers)
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		patch.Organizers = &ids
	}

	e, err := h.Events.Update(ctx, id, patch)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "event updated", e)
}

// HandleDelete removes an event; only the creator may.
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

	if _, err := h.Resolver.ResolveEvent(ctx, uid, id, capability.ActionDeleteOwner); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Events.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("events: deleted", zap.String("event_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "event deleted", nil)
}
