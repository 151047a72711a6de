// internal/app/store/tickets/ticketstore.go
package ticketstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultCancelReason matches the buyer-initiated cancellation wording
// shown in the web client.
const defaultCancelReason = "Annulé par l'utilisateur"

// Store manages purchased tickets. Inventory mutations go through the
// TypeStore's reserve/release protocol so the sold counter and the
// ticket documents cannot drift apart.
type Store struct {
	c     *mongo.Collection
	types *TypeStore
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("tickets"),
		types: NewTypeStore(db),
	}
}

// Types exposes the ticket type store backed by the same database.
func (s *Store) Types() *TypeStore {
	return s.types
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, apperr.New(apperr.NotFound, "ticket not found")
		}
		return models.Ticket{}, apperr.Wrap(apperr.Internal, err, "fetch ticket")
	}
	return t, nil
}

// GetByNumber looks a ticket up by its printed number, for check-in.
func (s *Store) GetByNumber(ctx context.Context, number string) (models.Ticket, error) {
	var t models.Ticket
	if err := s.c.FindOne(ctx, bson.M{"ticket_number": number}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, apperr.New(apperr.NotFound, "ticket not found")
		}
		return models.Ticket{}, apperr.Wrap(apperr.Internal, err, "fetch ticket")
	}
	return t, nil
}

// newTicketNumber builds a printed ticket number of the form
// TKT-<unix millis>-<random suffix>.
func newTicketNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("TKT-%d-%s", now.UnixMilli(), suffix)
}

// Purchase sells one ticket of the given type to the buyer. It reserves
// a unit of inventory first, then inserts the ticket; if the insert
// trips the one-active-ticket-per-email index the reservation is
// released, so a failed purchase never consumes capacity.
func (s *Store) Purchase(ctx context.Context, typeID primitive.ObjectID, buyer models.BuyerInfo) (models.Ticket, error) {
	if buyer.Firstname == "" || buyer.Lastname == "" || buyer.Email == "" {
		return models.Ticket{}, apperr.New(apperr.InvalidArgument, "buyer firstname, lastname and email are required")
	}
	buyer.Email = text.Fold(buyer.Email)

	tt, err := s.types.reserve(ctx, typeID)
	if err != nil {
		return models.Ticket{}, err
	}

	now := time.Now().UTC()
	ticket := models.Ticket{
		ID:           primitive.NewObjectID(),
		TicketTypeID: tt.ID,
		EventID:      tt.EventID,
		BuyerInfo:    buyer,
		PurchaseDate: now,
		TicketNumber: newTicketNumber(now),
		Status:       models.TicketActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, ticket); err != nil {
		if relErr := s.types.release(ctx, tt.ID); relErr != nil {
			return models.Ticket{}, relErr
		}
		if wafflemongo.IsDup(err) {
			return models.Ticket{}, apperr.New(apperr.Conflict, "this buyer already holds an active ticket for this event")
		}
		return models.Ticket{}, apperr.Wrap(apperr.Internal, err, "insert ticket")
	}
	return ticket, nil
}

// Use marks the ticket as consumed at the door. Used and cancelled are
// terminal; reusing returns the already-used ticket so the caller can
// report when it was first scanned.
func (s *Store) Use(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if !t.CanUse() {
		if t.IsUsed {
			return t, apperr.New(apperr.AlreadyInTerminalState, "this ticket has already been used")
		}
		return t, apperr.New(apperr.AlreadyInTerminalState, "a cancelled ticket cannot be used")
	}

	now := time.Now().UTC()
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_used": false, "status": models.TicketActive},
		bson.M{"$set": bson.M{
			"is_used":    true,
			"used_at":    now,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race with a concurrent scan or cancel; re-read to
			// report which terminal state won.
			t, getErr := s.GetByID(ctx, id)
			if getErr != nil {
				return models.Ticket{}, getErr
			}
			if t.IsUsed {
				return t, apperr.New(apperr.AlreadyInTerminalState, "this ticket has already been used")
			}
			return t, apperr.New(apperr.AlreadyInTerminalState, "a cancelled ticket cannot be used")
		}
		return models.Ticket{}, apperr.Wrap(apperr.Internal, err, "use ticket")
	}
	return t, nil
}

// Cancel voids an active, unused ticket and returns its inventory unit.
// An empty reason falls back to the buyer-initiated default.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID, reason string) (models.Ticket, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Ticket{}, err
	}
	if !t.CanCancel() {
		if t.IsUsed {
			return models.Ticket{}, apperr.New(apperr.AlreadyInTerminalState, "a used ticket cannot be cancelled")
		}
		return models.Ticket{}, apperr.New(apperr.AlreadyInTerminalState, "this ticket is already cancelled")
	}
	if reason == "" {
		reason = defaultCancelReason
	}

	now := time.Now().UTC()
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_used": false, "status": models.TicketActive},
		bson.M{"$set": bson.M{
			"status":              models.TicketCancelled,
			"cancelled_at":        now,
			"cancellation_reason": reason,
			"updated_at":          now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, apperr.New(apperr.AlreadyInTerminalState, "this ticket is no longer active")
		}
		return models.Ticket{}, apperr.Wrap(apperr.Internal, err, "cancel ticket")
	}

	if err := s.types.release(ctx, t.TicketTypeID); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// ListByEvent pages an event's tickets, newest purchase first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID, skip, limit int64) ([]models.Ticket, int64, error) {
	filter := bson.M{"event_id": eventID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count tickets")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "purchase_date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list tickets")
	}
	defer cur.Close(ctx)

	tickets := []models.Ticket{}
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode tickets")
	}
	return tickets, total, nil
}

// EventStats summarizes ticket sales for one event.
type EventStats struct {
	TotalSold int64   `json:"total_sold"`
	Active    int64   `json:"active"`
	Used      int64   `json:"used"`
	Cancelled int64   `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// Stats aggregates per-status counts and revenue for an event. Revenue
// counts active tickets only, joined to their type's price.
func (s *Store) Stats(ctx context.Context, eventID primitive.ObjectID) (EventStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"event_id": eventID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "ticket_types",
			"localField":   "ticket_type_id",
			"foreignField": "_id",
			"as":           "ticket_type",
		}}},
		{{Key: "$unwind", Value: "$ticket_type"}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"total_sold": bson.M{"$sum": 1},
			"active": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$status", models.TicketActive}},
					bson.M{"$eq": bson.A{"$is_used", false}},
				}}, 1, 0}}},
			"used": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$is_used", true}}, 1, 0}}},
			"cancelled": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.TicketCancelled}}, 1, 0}}},
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.TicketActive}},
				"$ticket_type.price", 0}}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return EventStats{}, apperr.Wrap(apperr.Internal, err, "aggregate ticket stats")
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalSold int64   `bson:"total_sold"`
		Active    int64   `bson:"active"`
		Used      int64   `bson:"used"`
		Cancelled int64   `bson:"cancelled"`
		Revenue   float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return EventStats{}, apperr.Wrap(apperr.Internal, err, "decode ticket stats")
	}
	if len(rows) == 0 {
		return EventStats{}, nil
	}
	return EventStats{
		TotalSold: rows[0].TotalSold,
		Active:    rows[0].Active,
		Used:      rows[0].Used,
		Cancelled: rows[0].Cancelled,
		Revenue:   rows[0].Revenue,
	}, nil
}
