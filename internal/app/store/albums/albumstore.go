// internal/app/store/albums/albumstore.go
package albumstore

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

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("albums")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Album, error) {
	var a models.Album
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Album{}, apperr.New(apperr.NotFound, "album not found")
		}
		return models.Album{}, apperr.Wrap(apperr.Internal, err, "fetch album")
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, a models.Album, creator primitive.ObjectID) (models.Album, error) {
	if a.Title == "" {
		return models.Album{}, apperr.New(apperr.InvalidArgument, "title is required")
	}
	if a.EventID.IsZero() {
		return models.Album{}, apperr.New(apperr.InvalidArgument, "an album must belong to an event")
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedBy = &creator
	a.Photos = []primitive.ObjectID{}
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Album{}, apperr.Wrap(apperr.Internal, err, "insert album")
	}
	return a, nil
}

type Patch struct {
	Title       *string
	Description *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Album, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}

	var a models.Album
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Album{}, apperr.New(apperr.NotFound, "album not found")
		}
		return models.Album{}, apperr.Wrap(apperr.Internal, err, "update album")
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete album")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "album not found")
	}
	return nil
}

// ListByEvent pages an event's albums, newest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID, skip, limit int64) ([]models.Album, int64, error) {
	filter := bson.M{"event_id": eventID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count albums")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list albums")
	}
	defer cur.Close(ctx)

	albums := []models.Album{}
	if err := cur.All(ctx, &albums); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode albums")
	}
	return albums, total, nil
}

// LinkPhoto appends photoID to the album's photo list.
func (s *Store) LinkPhoto(ctx context.Context, id, photoID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"photos": photoID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "link photo to album")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "album not found")
	}
	return nil
}

// UnlinkPhoto removes photoID from the album's photo list.
func (s *Store) UnlinkPhoto(ctx context.Context, id, photoID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"photos": photoID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "unlink photo from album")
	}
	return nil
}
