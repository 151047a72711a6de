// internal/app/features/groups/handler.go

// Package groups exposes group CRUD and membership. Secret groups never
// appear in listings and answer NotFound to outsiders; private groups
// answer a redacted summary.
package groups

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	groupstore "github.com/gatherhub/gatherhub/internal/app/store/groups"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Groups   *groupstore.Store
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:   groupstore.New(db),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}
