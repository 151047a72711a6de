// Package token issues and verifies the bearer credentials the API
// authenticates with. A credential is an HMAC-signed, timestamped value
// produced by gorilla/securecookie; verification is stateless and
// rejects anything expired, tampered with, or simply absent.
package token

import (
	"strings"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validity is how long an issued credential stays verifiable, in
// seconds. securecookie embeds the issue timestamp in the signed value
// and enforces this window on decode.
const Validity = 24 * 60 * 60

const credName = "gatherhub_token"

// Codec signs and verifies credentials with a single hash key.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec builds a codec from the configured signing key. The key must
// be non-empty; 32+ random bytes are expected in production.
func NewCodec(key string) *Codec {
	sc := securecookie.New([]byte(key), nil)
	sc.MaxAge(Validity)
	return &Codec{sc: sc}
}

type claims struct {
	UserID string `json:"uid"`
}

// Issue returns a fresh credential bound to userID.
func (c *Codec) Issue(userID primitive.ObjectID) (string, error) {
	cred, err := c.sc.Encode(credName, claims{UserID: userID.Hex()})
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err, "could not issue token")
	}
	return cred, nil
}

// Verify checks the signature and expiry of cred and returns the bound
// user id. An empty credential fails with "token required"; a present
// but malformed, expired, or tampered one with "invalid token". Both
// are apperr.Unauthenticated.
func (c *Codec) Verify(cred string) (primitive.ObjectID, error) {
	if strings.TrimSpace(cred) == "" {
		return primitive.NilObjectID, apperr.New(apperr.Unauthenticated, "token required")
	}
	var cl claims
	if err := c.sc.Decode(credName, cred, &cl); err != nil {
		return primitive.NilObjectID, apperr.Wrap(apperr.Unauthenticated, err, "invalid token")
	}
	uid, err := primitive.ObjectIDFromHex(cl.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.Wrap(apperr.Unauthenticated, err, "invalid token")
	}
	return uid, nil
}
