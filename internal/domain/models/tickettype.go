// internal/domain/models/tickettype.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketType is a bounded inventory of tickets for one event.
// QuantitySold never exceeds QuantityLimit; sale and cancellation mutate
// it through conditional updates in the ticket store.
type TicketType struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Price         float64 `bson:"price" json:"price"`                   // >= 0
	QuantityLimit int64   `bson:"quantity_limit" json:"quantityLimit"`  // >= 1
	QuantitySold  int64   `bson:"quantity_sold" json:"quantity_sold"`   // 0..QuantityLimit

	EventID  primitive.ObjectID `bson:"event_id" json:"event_id"`
	IsActive bool               `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SoldOut reports whether no more tickets of this type can be sold.
// Exhaustion is derived, not stored.
func (t *TicketType) SoldOut() bool {
	return t.QuantitySold >= t.QuantityLimit
}
