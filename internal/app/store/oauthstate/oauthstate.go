// internal/app/store/oauthstate/oauthstate.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ttl bounds how long an OAuth login attempt may stay in flight. The
// collection also carries a TTL index on expires_at as a backstop.
const ttl = 10 * time.Minute

type record struct {
	State     string    `bson:"state"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Store issues and validates single-use OAuth state tokens.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

// Issue creates and persists a fresh state token.
func (s *Store) Issue(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	rec := record{
		State:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return "", apperr.Wrap(apperr.Internal, err, "save oauth state")
	}
	return rec.State, nil
}

// Consume validates a returned state token and deletes it, so each
// token authorizes exactly one callback.
func (s *Store) Consume(ctx context.Context, state string) error {
	var rec record
	err := s.c.FindOneAndDelete(ctx, bson.M{"state": state}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.New(apperr.Unauthenticated, "unknown oauth state")
		}
		return apperr.Wrap(apperr.Internal, err, "consume oauth state")
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return apperr.New(apperr.Unauthenticated, "expired oauth state")
	}
	return nil
}
