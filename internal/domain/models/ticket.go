// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket statuses. Used and cancelled are terminal: no further lifecycle
// transition is permitted from either.
const (
	TicketActive    = "active"
	TicketCancelled = "cancelled"
)

// PostalAddress is part of the buyer contact details.
type PostalAddress struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// BuyerInfo is a value describing the purchaser. Buyers need no account,
// so this is contact data, not a User reference.
type BuyerInfo struct {
	Firstname string        `bson:"firstname" json:"firstname"`
	Lastname  string        `bson:"lastname" json:"lastname"`
	Email     string        `bson:"email" json:"email"`
	Address   PostalAddress `bson:"address" json:"address"`
}

// Ticket is a purchased admission for one event, tied to a ticket type.
// For a given event at most one active ticket exists per buyer email
// (enforced by a partial unique index at purchase time).
type Ticket struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketTypeID primitive.ObjectID `bson:"ticket_type_id" json:"ticket_type_id"`
	EventID      primitive.ObjectID `bson:"event_id" json:"event_id"`

	BuyerInfo    BuyerInfo `bson:"buyer_info" json:"buyerInfo"`
	PurchaseDate time.Time `bson:"purchase_date" json:"purchase_date"`

	TicketNumber string `bson:"ticket_number" json:"ticket_number"`
	Status       string `bson:"status" json:"status"` // active | cancelled

	IsUsed bool       `bson:"is_used" json:"is_used"`
	UsedAt *time.Time `bson:"used_at,omitempty" json:"used_at,omitempty"`

	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CanUse reports whether the ticket may still be scanned at the door.
func (t *Ticket) CanUse() bool {
	return t.Status == TicketActive && !t.IsUsed
}

// CanCancel reports whether the ticket may still be voided. A used
// ticket keeps its inventory unit and cannot be cancelled.
func (t *Ticket) CanCancel() bool {
	return t.Status == TicketActive && !t.IsUsed
}
