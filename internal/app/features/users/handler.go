// internal/app/features/users/handler.go

// Package users exposes profile reads, self-serve profile updates,
// account deletion, and user search.
package users

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	userstore "github.com/gatherhub/gatherhub/internal/app/store/users"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Log:   logger,
	}
}

// HandleGet returns another user's public profile.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", u)
}

type updateRequest struct {
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Email     *string `json:"email,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Age       *int    `json:"age,omitempty"`
	City      *string `json:"city,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// HandleUpdateMe applies a sparse update to the caller's own profile.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, userstore.ProfilePatch{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Avatar:    req.Avatar,
		Age:       req.Age,
		City:      req.City,
		Phone:     req.Phone,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "profile updated", u)
}

// HandleDeleteMe removes the caller's account. Authored content keeps
// its author ids; it is not cascaded.
func (h *Handler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Delete(ctx, uid); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("users: account deleted", zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "account deleted", nil)
}

// HandleSearch pages users matching a name or email fragment.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := query.Get(r, "q")
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, total, err := h.Users.Search(ctx, q, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", users, page.Meta(total))
}
