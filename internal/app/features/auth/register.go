// internal/app/features/auth/register.go
package auth

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// HandleRegister creates an account and signs the new user in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
	}, req.Password)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	cred, err := h.Codec.Issue(u.ID)
	if err != nil {
		h.Log.Error("auth: issue token after register", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("auth: user registered", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "account created", authResponse{Token: cred, User: u})
}
