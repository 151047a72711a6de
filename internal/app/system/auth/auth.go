// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ctxKey string

const currentUserKey ctxKey = "currentUserID"

// Middleware verifies bearer credentials and injects the authenticated
// user id into the request context.
type Middleware struct {
	codec *token.Codec
}

// NewMiddleware wraps the given token codec.
func NewMiddleware(codec *token.Codec) *Middleware {
	return &Middleware{codec: codec}
}

// CurrentUserID returns the authenticated user's id and a found flag.
func CurrentUserID(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(currentUserKey).(primitive.ObjectID)
	return id, ok
}

// WithUserID returns a copy of r whose context carries the given user
// id, as if it had passed bearer verification. Handler tests use this
// to bypass the middleware.
func WithUserID(r *http.Request, id primitive.ObjectID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, id))
}

// LoadUser decodes a bearer credential when one is present and, if it
// verifies, injects the user id into context. An absent or bad token is
// not an error here; RequireAuth enforces presence on protected routes.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cred := bearer(r); cred != "" {
			if uid, err := m.codec.Verify(cred); err == nil {
				r = WithUserID(r, uid)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests whose bearer credential is missing or
// does not verify.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUserID(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		uid, err := m.codec.Verify(bearer(r))
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		next.ServeHTTP(w, WithUserID(r, uid))
	})
}

// MustUserID returns the authenticated user id, writing an
// Unauthenticated response and returning false when none is present.
// Handlers behind RequireAuth use it as a belt-and-braces accessor.
func MustUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	uid, ok := CurrentUserID(r)
	if !ok {
		httpjson.Error(w, apperr.New(apperr.Unauthenticated, "token required"))
		return primitive.NilObjectID, false
	}
	return uid, true
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
