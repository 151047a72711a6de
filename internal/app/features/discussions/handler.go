// internal/app/features/discussions/handler.go

// Package discussions exposes threaded conversations attached to a
// group or an event, one per parent. Access follows the parent's
// standing; message edits and deletions belong to the message author.
package discussions

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	discussionstore "github.com/gatherhub/gatherhub/internal/app/store/discussions"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Discussions *discussionstore.Store
	Resolver    *capability.Resolver
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Discussions: discussionstore.New(db),
		Resolver:    capability.NewResolver(db),
		Log:         logger,
	}
}
