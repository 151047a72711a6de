// internal/app/features/shared/params.go

// Package shared holds helpers used across feature handlers.
package shared

import (
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDFromHex parses a body-supplied id, naming the field in the
// error.
func ObjectIDFromHex(raw, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidArgument, "invalid %s", name)
	}
	return id, nil
}

// ObjectIDParam parses the named chi URL parameter as an ObjectID.
// A malformed id is an InvalidArgument, not a NotFound: the request
// never named a real resource.
func ObjectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidArgument, "invalid %s", name)
	}
	return id, nil
}
