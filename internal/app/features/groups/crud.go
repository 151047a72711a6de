// internal/app/features/groups/crud.go
package groups

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	groupstore "github.com/gatherhub/gatherhub/internal/app/store/groups"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Icon              string `json:"icon,omitempty"`
	CoverPhoto        string `json:"coverPhoto,omitempty"`
	Type              string `json:"type,omitempty"`
	AllowMemberPosts  bool   `json:"allowMemberPosts,omitempty"`
	AllowMemberEvents bool   `json:"allowMemberEvents,omitempty"`
}

// HandleCreate creates a group with the caller as sole administrator.
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

	g, err := h.Groups.Create(ctx, models.Group{
		Name:              htmlsanitize.Plain(req.Name),
		Description:       htmlsanitize.Sanitize(req.Description),
		Icon:              req.Icon,
		CoverPhoto:        req.CoverPhoto,
		Type:              req.Type,
		AllowMemberPosts:  req.AllowMemberPosts,
		AllowMemberEvents: req.AllowMemberEvents,
	}, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("groups: created", zap.String("group_id", g.ID.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, "group created", g)
}

// HandleList pages public groups.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, total, err := h.Groups.ListPublic(ctx, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", groups, page.Meta(total))
}

// redactedGroup is the summary a private group shows to non-members.
type redactedGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	CoverPhoto  string `json:"coverPhoto,omitempty"`
	MemberCount int    `json:"memberCount"`
	CanJoin     bool   `json:"canJoin"`
}

// HandleGet returns a group. Members and administrators see the full
// record; outsiders see a redacted summary of a private group and
// NotFound for a secret one.
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

	d, err := h.Resolver.ResolveGroup(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if d.Redacted {
		g := d.Group
		httpjson.Respond(w, http.StatusOK, "ok", redactedGroup{
			ID:          g.ID.Hex(),
			Name:        g.Name,
			Description: g.Description,
			Icon:        g.Icon,
			CoverPhoto:  g.CoverPhoto,
			MemberCount: len(g.Members) + len(g.Administrators),
			CanJoin:     true,
		})
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", d.Group)
}

type updateRequest struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	Icon              *string `json:"icon,omitempty"`
	CoverPhoto        *string `json:"coverPhoto,omitempty"`
	Type              *string `json:"type,omitempty"`
	AllowMemberPosts  *bool   `json:"allowMemberPosts,omitempty"`
	AllowMemberEvents *bool   `json:"allowMemberEvents,omitempty"`
}

// HandleUpdate applies group setting changes; administrators only.
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

	if _, err := h.Resolver.ResolveGroup(ctx, uid, id, capability.ActionManage); err != nil {
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

	g, err := h.Groups.Update(ctx, id, groupstore.Patch{
		Name:              req.Name,
		Description:       req.Description,
		Icon:              req.Icon,
		CoverPhoto:        req.CoverPhoto,
		Type:              req.Type,
		AllowMemberPosts:  req.AllowMemberPosts,
		AllowMemberEvents: req.AllowMemberEvents,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "group updated", g)
}

// HandleDelete removes a group; only the creator may.
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

	if _, err := h.Resolver.ResolveGroup(ctx, uid, id, capability.ActionDeleteOwner); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Groups.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("groups: deleted", zap.String("group_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "group deleted", nil)
}
