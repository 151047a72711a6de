// internal/app/store/tickets/tickettypestore.go
package ticketstore

import (
	"context"
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TypeStore manages ticket type definitions and their sale counters.
type TypeStore struct {
	c *mongo.Collection
}

func NewTypeStore(db *mongo.Database) *TypeStore {
	return &TypeStore{c: db.Collection("ticket_types")}
}

func (s *TypeStore) GetByID(ctx context.Context, id primitive.ObjectID) (models.TicketType, error) {
	var t models.TicketType
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TicketType{}, apperr.New(apperr.NotFound, "ticket type not found")
		}
		return models.TicketType{}, apperr.Wrap(apperr.Internal, err, "fetch ticket type")
	}
	return t, nil
}

func (s *TypeStore) Create(ctx context.Context, t models.TicketType) (models.TicketType, error) {
	if t.Name == "" {
		return models.TicketType{}, apperr.New(apperr.InvalidArgument, "name is required")
	}
	if t.Price < 0 {
		return models.TicketType{}, apperr.New(apperr.InvalidArgument, "price cannot be negative")
	}
	if t.QuantityLimit < 1 {
		return models.TicketType{}, apperr.New(apperr.InvalidArgument, "quantity limit must be at least 1")
	}
	if t.EventID.IsZero() {
		return models.TicketType{}, apperr.New(apperr.InvalidArgument, "a ticket type must belong to an event")
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.QuantitySold = 0
	t.IsActive = true
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.TicketType{}, apperr.Wrap(apperr.Internal, err, "insert ticket type")
	}
	return t, nil
}

type TypePatch struct {
	Name          *string
	Description   *string
	Price         *float64
	QuantityLimit *int64
	IsActive      *bool
}

func (s *TypeStore) Update(ctx context.Context, id primitive.ObjectID, p TypePatch) (models.TicketType, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.TicketType{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return models.TicketType{}, apperr.New(apperr.InvalidArgument, "price cannot be negative")
		}
		set["price"] = *p.Price
	}
	if p.QuantityLimit != nil {
		if *p.QuantityLimit < cur.QuantitySold {
			return models.TicketType{}, apperr.New(apperr.InvalidArgument, "quantity limit cannot drop below tickets already sold")
		}
		set["quantity_limit"] = *p.QuantityLimit
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}

	var t models.TicketType
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TicketType{}, apperr.New(apperr.NotFound, "ticket type not found")
		}
		return models.TicketType{}, apperr.Wrap(apperr.Internal, err, "update ticket type")
	}
	return t, nil
}

// Delete removes a ticket type, but only while no tickets have been
// sold. The guard is part of the delete filter, not a separate read.
func (s *TypeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "quantity_sold": 0})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete ticket type")
	}
	if res.DeletedCount == 0 {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperr.New(apperr.Conflict, "a ticket type with sold tickets cannot be deleted")
	}
	return nil
}

// ListByEvent returns all ticket types for an event.
func (s *TypeStore) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.TicketType, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list ticket types")
	}
	defer cur.Close(ctx)

	types := []models.TicketType{}
	if err := cur.All(ctx, &types); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "decode ticket types")
	}
	return types, nil
}

// reserve atomically claims one unit of the type's inventory. The
// filter requires the type to be active with capacity left, so two
// racing buyers of the last ticket cannot both match.
func (s *TypeStore) reserve(ctx context.Context, id primitive.ObjectID) (models.TicketType, error) {
	var t models.TicketType
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"_id":       id,
			"is_active": true,
			"$expr":     bson.M{"$lt": bson.A{"$quantity_sold", "$quantity_limit"}},
		},
		bson.M{
			"$inc": bson.M{"quantity_sold": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&t)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.TicketType{}, apperr.Wrap(apperr.Internal, err, "reserve ticket")
	}

	// The conditional update missed; find out why.
	t, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return models.TicketType{}, getErr
	}
	if !t.IsActive {
		return models.TicketType{}, apperr.New(apperr.InvalidArgument, "this ticket type is not on sale")
	}
	return models.TicketType{}, apperr.New(apperr.Conflict, "this ticket type is sold out")
}

// release returns one reserved unit, used when the ticket insert that
// followed a reservation fails.
func (s *TypeStore) release(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "quantity_sold": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"quantity_sold": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "release ticket reservation")
	}
	return nil
}
