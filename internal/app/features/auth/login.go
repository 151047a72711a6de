// internal/app/features/auth/login.go
package auth

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin checks credentials and issues a fresh bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	cred, err := h.Codec.Issue(u.ID)
	if err != nil {
		h.Log.Error("auth: issue token after login", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, "signed in", authResponse{Token: cred, User: u})
}

// HandleMe returns the authenticated user's own record.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", u)
}
