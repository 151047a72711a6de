// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, apperr.Wrap(apperr.Internal, err, "fetch event")
	}
	return e, nil
}

// organizerList keeps the creator as the first organizer and appends
// the given ids after it, dropping duplicates.
func organizerList(creator primitive.ObjectID, extra []primitive.ObjectID) []primitive.ObjectID {
	out := []primitive.ObjectID{creator}
	for _, id := range extra {
		dup := false
		for _, have := range out {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

// Create inserts an event. The creator becomes the first organizer;
// any organizers already on the event are kept after it. The creator
// does not participate automatically and joins like anyone else.
func (s *Store) Create(ctx context.Context, e models.Event, creator primitive.ObjectID) (models.Event, error) {
	if e.Name == "" || e.Description == "" {
		return models.Event{}, apperr.New(apperr.InvalidArgument, "name and description are required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return models.Event{}, apperr.New(apperr.InvalidArgument, "start and end dates are required")
	}
	if !e.StartDate.Before(e.EndDate) {
		return models.Event{}, apperr.New(apperr.InvalidArgument, "the start date must be before the end date")
	}

	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.NameCI = text.Fold(e.Name)
	e.Organizers = organizerList(creator, e.Organizers)
	e.Participants = []primitive.ObjectID{}
	e.IsPublic = !e.IsPrivate
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, apperr.Wrap(apperr.Internal, err, "insert event")
	}
	return e, nil
}

type Patch struct {
	Name        *string
	Description *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
	IsPrivate   *bool
	CoverPhoto  *string

	// Organizers replaces the organizer list. The creator stays first
	// and cannot be removed.
	Organizers *[]primitive.ObjectID
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Event, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, err
	}

	start, end := cur.StartDate, cur.EndDate
	if p.StartDate != nil {
		start = *p.StartDate
	}
	if p.EndDate != nil {
		end = *p.EndDate
	}
	if !start.Before(end) {
		return models.Event{}, apperr.New(apperr.InvalidArgument, "the start date must be before the end date")
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.StartDate != nil {
		set["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}
	if p.IsPrivate != nil {
		set["is_private"] = *p.IsPrivate
		set["is_public"] = !*p.IsPrivate
	}
	if p.CoverPhoto != nil {
		set["cover_photo"] = *p.CoverPhoto
	}
	if p.Organizers != nil {
		set["organizers"] = organizerList(cur.Creator(), *p.Organizers)
	}

	var e models.Event
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, apperr.Wrap(apperr.Internal, err, "update event")
	}
	return e, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete event")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "event not found")
	}
	return nil
}

// ListPublic pages public events, soonest first.
func (s *Store) ListPublic(ctx context.Context, skip, limit int64) ([]models.Event, int64, error) {
	filter := bson.M{"is_public": true}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count events")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list events")
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode events")
	}
	return events, total, nil
}

// ListByGroup pages a group's events, soonest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, skip, limit int64) ([]models.Event, int64, error) {
	filter := bson.M{"group_id": groupID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count group events")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list group events")
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode group events")
	}
	return events, total, nil
}

// AddParticipant registers userID for the event. Joining twice is a
// conflict; the group-membership gate for group-linked events lives in
// the policy layer.
func (s *Store) AddParticipant(ctx context.Context, id, userID primitive.ObjectID) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.IsParticipant(userID) {
		return apperr.New(apperr.Conflict, "the user already participates in this event")
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "add event participant")
	}
	return nil
}

// RemoveParticipant takes userID off the participant list. Organizer
// standing is separate and unaffected.
func (s *Store) RemoveParticipant(ctx context.Context, id, userID primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"participants": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "remove event participant")
	}
	return nil
}
