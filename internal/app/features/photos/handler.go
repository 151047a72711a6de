// internal/app/features/photos/handler.go

// Package photos exposes photo CRUD, comments, and likes. Upload and
// reads follow the parent album's access chain; update and delete are
// uploader-only. The parent album's photo list is kept in sync here.
package photos

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	albumstore "github.com/gatherhub/gatherhub/internal/app/store/albums"
	photostore "github.com/gatherhub/gatherhub/internal/app/store/photos"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Photos   *photostore.Store
	Albums   *albumstore.Store
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Photos:   photostore.New(db),
		Albums:   albumstore.New(db),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}
