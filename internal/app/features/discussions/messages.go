// internal/app/features/discussions/messages.go
package discussions

import (
	"context"
	"net/http"
	"strings"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messageRequest struct {
	Content string `json:"content"`
}

// canPost applies the posting rule on top of read access: in a group
// discussion, plain members need the group's allow-member-posts flag;
// administrators and organizers always may.
func canPost(d capability.Decision) bool {
	if d.Group != nil && d.Role == capability.RoleMember {
		return d.Group.AllowMemberPosts
	}
	return true
}

// resolveForPost loads the discussion, checks access and the posting
// rule, and returns the sanitized content.
func (h *Handler) resolveForPost(ctx context.Context, w http.ResponseWriter, uid, id primitive.ObjectID, raw string) (string, bool) {
	content := strings.TrimSpace(htmlsanitize.Plain(raw))
	if content == "" {
		httpjson.Error(w, apperr.New(apperr.InvalidArgument, "message content is required"))
		return "", false
	}

	d, err := h.Resolver.ResolveDiscussion(ctx, uid, id)
	if err != nil {
		httpjson.Error(w, err)
		return "", false
	}
	if !canPost(d) {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "members cannot post in this group"))
		return "", false
	}
	return content, true
}

// HandleAddMessage appends a top-level message.
func (h *Handler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req messageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	content, ok := h.resolveForPost(ctx, w, uid, id, req.Content)
	if !ok {
		return
	}

	msg, err := h.Discussions.AddMessage(ctx, id, uid, content)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, "message added", msg)
}

// HandleAddReply appends a reply under an addressed message.
func (h *Handler) HandleAddReply(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	messageID, err := shared.ObjectIDParam(r, "messageID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req messageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	content, ok := h.resolveForPost(ctx, w, uid, id, req.Content)
	if !ok {
		return
	}

	reply, err := h.Discussions.AddReply(ctx, id, messageID, uid, content)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, "reply added", reply)
}

// requireAuthor checks that uid wrote the addressed message.
func (h *Handler) requireAuthor(ctx context.Context, w http.ResponseWriter, uid, id, messageID primitive.ObjectID) bool {
	d, err := h.Resolver.ResolveDiscussion(ctx, uid, id)
	if err != nil {
		httpjson.Error(w, err)
		return false
	}
	msg := d.Discussion.FindMessage(messageID)
	if msg == nil {
		httpjson.Error(w, apperr.New(apperr.NotFound, "message not found"))
		return false
	}
	if msg.Author != uid {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "only the author can modify a message"))
		return false
	}
	return true
}

// HandleUpdateMessage edits a message; author only.
func (h *Handler) HandleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	messageID, err := shared.ObjectIDParam(r, "messageID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req messageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	content := strings.TrimSpace(htmlsanitize.Plain(req.Content))
	if content == "" {
		httpjson.Error(w, apperr.New(apperr.InvalidArgument, "message content is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireAuthor(ctx, w, uid, id, messageID) {
		return
	}
	if err := h.Discussions.UpdateMessage(ctx, id, messageID, content); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "message updated", nil)
}

// HandleDeleteMessage removes a message and its replies; author only.
func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	messageID, err := shared.ObjectIDParam(r, "messageID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireAuthor(ctx, w, uid, id, messageID) {
		return
	}
	if err := h.Discussions.DeleteMessage(ctx, id, messageID); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "message deleted", nil)
}
