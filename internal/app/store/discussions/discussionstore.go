// internal/app/store/discussions/discussionstore.go
package discussionstore

import (
	"context"
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("discussions")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error) {
	var d models.Discussion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Discussion{}, apperr.New(apperr.NotFound, "discussion not found")
		}
		return models.Discussion{}, apperr.Wrap(apperr.Internal, err, "fetch discussion")
	}
	return d, nil
}

// GetByGroup returns the group's discussion.
func (s *Store) GetByGroup(ctx context.Context, groupID primitive.ObjectID) (models.Discussion, error) {
	return s.getByLink(ctx, bson.M{"linked_to_group": groupID})
}

// GetByEvent returns the event's discussion.
func (s *Store) GetByEvent(ctx context.Context, eventID primitive.ObjectID) (models.Discussion, error) {
	return s.getByLink(ctx, bson.M{"linked_to_event": eventID})
}

func (s *Store) getByLink(ctx context.Context, filter bson.M) (models.Discussion, error) {
	var d models.Discussion
	if err := s.c.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Discussion{}, apperr.New(apperr.NotFound, "discussion not found")
		}
		return models.Discussion{}, apperr.Wrap(apperr.Internal, err, "fetch discussion")
	}
	return d, nil
}

// Create inserts a discussion linked to exactly one parent. The unique
// sparse indexes on the link fields make a second discussion for the
// same parent a duplicate-key insert.
func (s *Store) Create(ctx context.Context, d models.Discussion) (models.Discussion, error) {
	if err := d.ValidateLink(); err != nil {
		return models.Discussion{}, apperr.New(apperr.InvalidArgument, "%s", err.Error())
	}

	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Messages = []models.Message{}
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Discussion{}, apperr.New(apperr.Conflict, "a discussion already exists for this parent")
		}
		return models.Discussion{}, apperr.Wrap(apperr.Internal, err, "insert discussion")
	}
	return d, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete discussion")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "discussion not found")
	}
	return nil
}

// AddMessage appends a top-level message and returns it with its
// generated id.
func (s *Store) AddMessage(ctx context.Context, id, author primitive.ObjectID, content string) (models.Message, error) {
	if content == "" {
		return models.Message{}, apperr.New(apperr.InvalidArgument, "message content is required")
	}
	now := time.Now().UTC()
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   content,
		Replies:   []models.Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		return models.Message{}, apperr.Wrap(apperr.Internal, err, "add discussion message")
	}
	if res.MatchedCount == 0 {
		return models.Message{}, apperr.New(apperr.NotFound, "discussion not found")
	}
	return msg, nil
}

// AddReply appends a reply to the message with messageID.
func (s *Store) AddReply(ctx context.Context, id, messageID, author primitive.ObjectID, content string) (models.Reply, error) {
	if content == "" {
		return models.Reply{}, apperr.New(apperr.InvalidArgument, "reply content is required")
	}
	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "messages._id": messageID},
		bson.M{
			"$push": bson.M{"messages.$.replies": reply},
			"$set":  bson.M{"updated_at": reply.CreatedAt},
		})
	if err != nil {
		return models.Reply{}, apperr.Wrap(apperr.Internal, err, "add discussion reply")
	}
	if res.MatchedCount == 0 {
		return models.Reply{}, apperr.New(apperr.NotFound, "message not found")
	}
	return reply, nil
}

// UpdateMessage rewrites the content of the message with messageID.
// The author-only rule is enforced by the caller.
func (s *Store) UpdateMessage(ctx context.Context, id, messageID primitive.ObjectID, content string) error {
	if content == "" {
		return apperr.New(apperr.InvalidArgument, "message content is required")
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "messages._id": messageID},
		bson.M{"$set": bson.M{
			"messages.$.content":    content,
			"messages.$.updated_at": now,
			"updated_at":            now,
		}})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "update discussion message")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "message not found")
	}
	return nil
}

// DeleteMessage removes the message with messageID and its replies.
func (s *Store) DeleteMessage(ctx context.Context, id, messageID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"messages": bson.M{"_id": messageID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete discussion message")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "discussion not found")
	}
	if res.ModifiedCount == 0 {
		return apperr.New(apperr.NotFound, "message not found")
	}
	return nil
}
