// internal/app/features/auth/handler.go

// Package auth exposes registration, login, and the current-user
// endpoint. Login issues the signed bearer credential the rest of the
// API authenticates with.
package auth

import (
	userstore "github.com/gatherhub/gatherhub/internal/app/store/users"
	"github.com/gatherhub/gatherhub/internal/app/system/token"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the auth feature.
type Handler struct {
	Users *userstore.Store
	Codec *token.Codec
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, codec *token.Codec, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Codec: codec,
		Log:   logger,
	}
}
