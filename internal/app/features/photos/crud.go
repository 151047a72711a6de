// internal/app/features/photos/crud.go
package photos

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	photostore "github.com/gatherhub/gatherhub/internal/app/store/photos"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// HandleCreate uploads a photo into the album in the URL and links it
// into the album's photo list.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	albumID, err := shared.ObjectIDParam(r, "albumID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveAlbum(ctx, uid, albumID, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	p, err := h.Photos.Create(ctx, models.Photo{
		Title:   htmlsanitize.Plain(req.Title),
		URL:     req.URL,
		Caption: htmlsanitize.Plain(req.Caption),
		AlbumID: albumID,
	}, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Albums.LinkPhoto(ctx, albumID, p.ID); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("photos: uploaded", zap.String("photo_id", p.ID.Hex()), zap.String("album_id", albumID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "photo uploaded", p)
}

// HandleListByAlbum pages an album's photos.
func (h *Handler) HandleListByAlbum(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	albumID, err := shared.ObjectIDParam(r, "albumID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveAlbum(ctx, uid, albumID, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	photos, total, err := h.Photos.ListByAlbum(ctx, albumID, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", photos, page.Meta(total))
}

// HandleGet returns one photo.
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

	d, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", d.Photo)
}

type updateRequest struct {
	Title   *string `json:"title,omitempty"`
	Caption *string `json:"caption,omitempty"`
}

// HandleUpdate edits photo metadata; uploader only.
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

	if _, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	if req.Title != nil {
		cleaned := htmlsanitize.Plain(*req.Title)
		req.Title = &cleaned
	}
	if req.Caption != nil {
		cleaned := htmlsanitize.Plain(*req.Caption)
		req.Caption = &cleaned
	}

	p, err := h.Photos.Update(ctx, id, photostore.Patch{
		Title:   req.Title,
		Caption: req.Caption,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "photo updated", p)
}

// HandleDelete removes a photo and unlinks it from its album; uploader
// only.
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

	d, err := h.Resolver.ResolvePhoto(ctx, uid, id, capability.ActionManage)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Photos.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Albums.UnlinkPhoto(ctx, d.Photo.AlbumID, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("photos: deleted", zap.String("photo_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "photo deleted", nil)
}
