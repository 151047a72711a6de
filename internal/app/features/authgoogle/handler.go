// internal/app/features/authgoogle/handler.go

// Package authgoogle implements Google sign-in. A successful callback
// upserts the Google account as a local user and answers with the same
// bearer token the password login issues.
package authgoogle

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/store/oauthstate"
	userstore "github.com/gatherhub/gatherhub/internal/app/store/users"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Handler struct {
	Users  *userstore.Store
	States *oauthstate.Store
	Codec  *token.Codec
	Log    *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(db *mongo.Database, codec *token.Codec, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		States:       oauthstate.New(db),
		Codec:        codec,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured reports whether Google sign-in credentials are set.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin starts the flow: persist a single-use state token and
// redirect to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		httpjson.Error(w, apperr.New(apperr.InvalidArgument, "google sign-in is not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	state, err := h.States.Issue(ctx)
	if err != nil {
		h.Log.Error("authgoogle: issue state", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusSeeOther)
}

type googleUserinfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// ServeCallback finishes the flow: validate state, exchange the code,
// fetch the profile, upsert the user, and issue a bearer token.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.States.Consume(ctx, query.Get(r, "state")); err != nil {
		httpjson.Error(w, err)
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		httpjson.Error(w, apperr.New(apperr.Unauthenticated, "missing authorization code"))
		return
	}

	conf := h.oauth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		h.Log.Warn("authgoogle: code exchange failed", zap.Error(err))
		httpjson.Error(w, apperr.Wrap(apperr.Unauthenticated, err, "google sign-in failed"))
		return
	}

	info, err := fetchUserinfo(ctx, conf, tok)
	if err != nil {
		h.Log.Warn("authgoogle: userinfo fetch failed", zap.Error(err))
		httpjson.Error(w, apperr.Wrap(apperr.Unauthenticated, err, "google sign-in failed"))
		return
	}
	if info.Email == "" {
		httpjson.Error(w, apperr.New(apperr.Unauthenticated, "google account has no email"))
		return
	}

	u, err := h.Users.UpsertGoogle(ctx, info.Email, info.GivenName, info.FamilyName, info.Picture)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	cred, err := h.Codec.Issue(u.ID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("authgoogle: user signed in", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, "signed in", map[string]any{"token": cred, "user": u})
}

func fetchUserinfo(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (googleUserinfo, error) {
	resp, err := conf.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return googleUserinfo{}, err
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserinfo{}, err
	}
	return info, nil
}
