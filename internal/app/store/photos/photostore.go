// internal/app/store/photos/photostore.go
package photostore

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
	return &Store{c: db.Collection("photos")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Photo, error) {
	var p models.Photo
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Photo{}, apperr.New(apperr.NotFound, "photo not found")
		}
		return models.Photo{}, apperr.Wrap(apperr.Internal, err, "fetch photo")
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Photo, uploader primitive.ObjectID) (models.Photo, error) {
	if p.Title == "" || p.URL == "" {
		return models.Photo{}, apperr.New(apperr.InvalidArgument, "title and url are required")
	}
	if p.AlbumID.IsZero() {
		return models.Photo{}, apperr.New(apperr.InvalidArgument, "a photo must belong to an album")
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.UploadedBy = uploader
	p.Comments = []models.PhotoComment{}
	p.Likes = []primitive.ObjectID{}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Photo{}, apperr.Wrap(apperr.Internal, err, "insert photo")
	}
	return p, nil
}

type Patch struct {
	Title   *string
	Caption *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Photo, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Caption != nil {
		set["caption"] = *p.Caption
	}

	var ph models.Photo
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ph)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Photo{}, apperr.New(apperr.NotFound, "photo not found")
		}
		return models.Photo{}, apperr.Wrap(apperr.Internal, err, "update photo")
	}
	return ph, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete photo")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "photo not found")
	}
	return nil
}

// ListByAlbum pages an album's photos in upload order.
func (s *Store) ListByAlbum(ctx context.Context, albumID primitive.ObjectID, skip, limit int64) ([]models.Photo, int64, error) {
	filter := bson.M{"album_id": albumID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count photos")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list photos")
	}
	defer cur.Close(ctx)

	photos := []models.Photo{}
	if err := cur.All(ctx, &photos); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode photos")
	}
	return photos, total, nil
}

// AddComment appends a comment and returns it with its generated id.
func (s *Store) AddComment(ctx context.Context, id, author primitive.ObjectID, content string) (models.PhotoComment, error) {
	if content == "" {
		return models.PhotoComment{}, apperr.New(apperr.InvalidArgument, "comment content is required")
	}
	comment := models.PhotoComment{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return models.PhotoComment{}, apperr.Wrap(apperr.Internal, err, "add photo comment")
	}
	if res.MatchedCount == 0 {
		return models.PhotoComment{}, apperr.New(apperr.NotFound, "photo not found")
	}
	return comment, nil
}

// DeleteComment removes a comment by id. The author-only rule is
// enforced by the caller, which has the full photo document.
func (s *Store) DeleteComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete photo comment")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "photo not found")
	}
	return nil
}

// ToggleLike adds the user's like, or removes it when already present.
// It returns the resulting liked state.
func (s *Store) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	update := bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	liked := true
	if p.LikedBy(userID) {
		update = bson.M{
			"$pull": bson.M{"likes": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		}
		liked = false
	}
	if _, err := s.c.UpdateByID(ctx, id, update); err != nil {
		return false, apperr.Wrap(apperr.Internal, err, "toggle photo like")
	}
	return liked, nil
}
