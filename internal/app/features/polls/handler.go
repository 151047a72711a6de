// internal/app/features/polls/handler.go

// Package polls exposes poll CRUD, voting, and results. Voting is open
// to the event's participants while the poll accepts votes; a revote
// replaces the user's previous choice for that question.
package polls

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	pollstore "github.com/gatherhub/gatherhub/internal/app/store/polls"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Polls    *pollstore.Store
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Polls:    pollstore.New(db),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}
