// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost used across the app for password hashes.
const bcryptCost = 12

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRx.MatchString(s) }

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, err, "fetch user")
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, err, "fetch user by email")
	}
	return u, nil
}

// Create inserts a new user. Password may be empty (Google sign-in
// accounts); when present it is stored as a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	if !ValidEmail(u.Email) {
		return models.User{}, apperr.New(apperr.InvalidArgument, "invalid email format")
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return models.User{}, apperr.Wrap(apperr.Internal, err, "hash password")
		}
		u.PasswordHash = string(hash)
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.EmailCI = text.Fold(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.New(apperr.Conflict, "a user with this email already exists")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, err, "insert user")
	}
	return u, nil
}

// Authenticate verifies email + password and returns the matching user.
// Wrong email and wrong password produce the same message so the
// response does not confirm account existence.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	badCreds := apperr.New(apperr.Unauthenticated, "incorrect email or password")

	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return models.User{}, badCreds
		}
		return models.User{}, err
	}
	if u.PasswordHash == "" {
		return models.User{}, badCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, badCreds
	}
	return u, nil
}

// UpdateProfile applies a sparse profile patch. A changed email is
// validated and refolded; uniqueness rides on the email_ci index.
type ProfilePatch struct {
	Email     *string
	Firstname *string
	Lastname  *string
	Avatar    *string
	Age       *int
	City      *string
	Phone     *string
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !ValidEmail(email) {
			return models.User{}, apperr.New(apperr.InvalidArgument, "invalid email format")
		}
		set["email"] = email
		set["email_ci"] = text.Fold(email)
	}
	if patch.Firstname != nil {
		set["firstname"] = *patch.Firstname
	}
	if patch.Lastname != nil {
		set["lastname"] = *patch.Lastname
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.New(apperr.Conflict, "this email is already used by another user")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, err, "update user")
	}
	return u, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete user")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// Search lists users newest first, optionally filtered by a
// case-insensitive match on name or email.
func (s *Store) Search(ctx context.Context, term string, skip, limit int64) ([]models.User, int64, error) {
	filter := bson.M{}
	if term = strings.TrimSpace(term); term != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"firstname": rx},
			bson.M{"lastname": rx},
			bson.M{"email": rx},
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count users")
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list users")
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode users")
	}
	return users, total, nil
}

// UpsertGoogle finds or creates the account for a Google sign-in,
// updating the name fields from the Google profile on first creation
// only.
func (s *Store) UpsertGoogle(ctx context.Context, email, firstname, lastname, avatar string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return models.User{}, err
	}
	return s.Create(ctx, models.User{
		Email:     email,
		Firstname: firstname,
		Lastname:  lastname,
		Avatar:    avatar,
	}, "")
}
