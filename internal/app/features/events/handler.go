// internal/app/features/events/handler.go

// Package events exposes event CRUD and participation. Group-linked
// events gate creation and participation on group standing.
package events

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	eventstore "github.com/gatherhub/gatherhub/internal/app/store/events"
	groupstore "github.com/gatherhub/gatherhub/internal/app/store/groups"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events   *eventstore.Store
	Groups   *groupstore.Store
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   eventstore.New(db),
		Groups:   groupstore.New(db),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}
