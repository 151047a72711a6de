// internal/app/store/groups/groupstore.go
package groupstore

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
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, apperr.Wrap(apperr.Internal, err, "fetch group")
	}
	return g, nil
}

// Create inserts a group. The creating user becomes the sole initial
// administrator and therefore the creator.
func (s *Store) Create(ctx context.Context, g models.Group, creator primitive.ObjectID) (models.Group, error) {
	if g.Name == "" || g.Description == "" {
		return models.Group{}, apperr.New(apperr.InvalidArgument, "name and description are required")
	}
	if g.Type == "" {
		g.Type = models.GroupPublic
	}
	if !models.ValidGroupType(g.Type) {
		return models.Group{}, apperr.New(apperr.InvalidArgument, "group type must be public, private or secret")
	}

	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Administrators = []primitive.ObjectID{creator}
	if g.Members == nil {
		g.Members = []primitive.ObjectID{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, apperr.Wrap(apperr.Internal, err, "insert group")
	}
	return g, nil
}

// Patch is a sparse update for group settings.
type Patch struct {
	Name              *string
	Description       *string
	Icon              *string
	CoverPhoto        *string
	Type              *string
	AllowMemberPosts  *bool
	AllowMemberEvents *bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Group, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
		set["name_ci"] = text.Fold(*p.Name)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Icon != nil {
		set["icon"] = *p.Icon
	}
	if p.CoverPhoto != nil {
		set["cover_photo"] = *p.CoverPhoto
	}
	if p.Type != nil {
		if !models.ValidGroupType(*p.Type) {
			return models.Group{}, apperr.New(apperr.InvalidArgument, "group type must be public, private or secret")
		}
		set["type"] = *p.Type
	}
	if p.AllowMemberPosts != nil {
		set["allow_member_posts"] = *p.AllowMemberPosts
	}
	if p.AllowMemberEvents != nil {
		set["allow_member_events"] = *p.AllowMemberEvents
	}

	var g models.Group
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, apperr.Wrap(apperr.Internal, err, "update group")
	}
	return g, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete group")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "group not found")
	}
	return nil
}

// ListPublic pages public groups newest first. Secret and private
// groups never appear here.
func (s *Store) ListPublic(ctx context.Context, skip, limit int64) ([]models.Group, int64, error) {
	filter := bson.M{"type": models.GroupPublic}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count groups")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list groups")
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode groups")
	}
	return groups, total, nil
}

// AddMember adds userID to the member set. Secret groups cannot be
// joined; joining twice is a conflict.
func (s *Store) AddMember(ctx context.Context, id, userID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.Type == models.GroupSecret {
		return apperr.New(apperr.Forbidden, "a secret group cannot be joined")
	}
	if g.IsMember(userID) {
		return apperr.New(apperr.Conflict, "the user is already a member of this group")
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "add group member")
	}
	return nil
}

// RemoveMember removes userID from the member set. Administrators
// cannot leave; they would orphan the group.
func (s *Store) RemoveMember(ctx context.Context, id, userID primitive.ObjectID) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.IsAdministrator(userID) {
		return apperr.New(apperr.InvalidArgument, "an administrator cannot leave the group")
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "remove group member")
	}
	return nil
}

// AddAdministrator promotes userID, removing any plain membership so
// the two sets stay conceptually disjoint.
func (s *Store) AddAdministrator(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"administrators": userID},
		"$pull":     bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "add group administrator")
	}
	return nil
}
