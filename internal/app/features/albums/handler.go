// internal/app/features/albums/handler.go

// Package albums exposes album CRUD under events. Creation is for
// event organizers; manage operations extend to the album's creator;
// reads follow the album access chain down to a linked group's
// administrators.
package albums

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	albumstore "github.com/gatherhub/gatherhub/internal/app/store/albums"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Albums   *albumstore.Store
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Albums:   albumstore.New(db),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// HandleCreate creates an album under the event in the URL.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
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

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	a, err := h.Albums.Create(ctx, models.Album{
		Title:       htmlsanitize.Plain(req.Title),
		Description: htmlsanitize.Sanitize(req.Description),
		EventID:     eventID,
	}, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("albums: created", zap.String("album_id", a.ID.Hex()), zap.String("event_id", eventID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "album created", a)
}

// HandleListByEvent pages an event's albums.
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

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	albums, total, err := h.Albums.ListByEvent(ctx, eventID, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", albums, page.Meta(total))
}

// HandleGet returns one album.
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

	d, err := h.Resolver.ResolveAlbum(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", d.Album)
}

type updateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// HandleUpdate edits an album; the creator or an event organizer.
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

	if _, err := h.Resolver.ResolveAlbum(ctx, uid, id, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	if req.Title != nil {
		cleaned := htmlsanitize.Plain(*req.Title)
		req.Title = &cleaned
	}
	if req.Description != nil {
		cleaned := htmlsanitize.Sanitize(*req.Description)
		req.Description = &cleaned
	}

	a, err := h.Albums.Update(ctx, id, albumstore.Patch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "album updated", a)
}

// HandleDelete removes an album; the creator or an event organizer.
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

	if _, err := h.Resolver.ResolveAlbum(ctx, uid, id, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Albums.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("albums: deleted", zap.String("album_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "album deleted", nil)
}
