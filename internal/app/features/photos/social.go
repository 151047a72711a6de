// internal/app/features/photos/social.go
package photos

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
)

type commentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment comments on a photo; anyone with read access may.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req commentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	c, err := h.Photos.AddComment(ctx, id, uid, htmlsanitize.Plain(req.Content))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, "comment added", c)
}

// HandleDeleteComment removes a comment; its author or the photo's
// uploader.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	commentID, err := shared.ObjectIDParam(r, "commentID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var found bool
	for _, c := range d.Photo.Comments {
		if c.ID == commentID {
			found = true
			if c.Author != uid && d.Photo.UploadedBy != uid {
				httpjson.Error(w, apperr.New(apperr.Forbidden, "only the comment author or the uploader can delete a comment"))
				return
			}
			break
		}
	}
	if !found {
		httpjson.Error(w, apperr.New(apperr.NotFound, "comment not found"))
		return
	}

	if err := h.Photos.DeleteComment(ctx, id, commentID); err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "comment deleted", nil)
}

// HandleToggleLike flips the caller's like on a photo.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	liked, err := h.Photos.ToggleLike(ctx, id, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", map[string]bool{"liked": liked})
}
