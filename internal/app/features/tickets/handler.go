// internal/app/features/tickets/handler.go

// Package tickets exposes ticket type management, purchase, check-in,
// and cancellation. Buyers need no account: purchase and cancellation
// authenticate against the buyer email, while type management,
// check-in, listing, and stats belong to the event's organizers.
package tickets

import (
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	ticketstore "github.com/gatherhub/gatherhub/internal/app/store/tickets"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Tickets  *ticketstore.Store
	Types    *ticketstore.TypeStore
	Resolver *capability.Resolver
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	store := ticketstore.New(db)
	return &Handler{
		Tickets:  store,
		Types:    store.Types(),
		Resolver: capability.NewResolver(db),
		Log:      logger,
	}
}
