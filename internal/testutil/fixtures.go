package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gatherhub/gatherhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, firstname, lastname, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		EmailCI:   text.Fold(email),
		Firstname: firstname,
		Lastname:  lastname,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup creates a group of the given type with creator as its
// sole administrator.
func (f *Fixtures) CreateGroup(ctx context.Context, name, groupType string, creator primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Description:    "Test group description",
		Type:           groupType,
		Administrators: []primitive.ObjectID{creator},
		Members:        []primitive.ObjectID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// AddGroupMember appends a user to the group's member list.
func (f *Fixtures) AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("groups").UpdateByID(ctx, groupID,
		bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		f.t.Fatalf("failed to add group member: %v", err)
	}
}

// CreateEvent creates a public event with creator as sole organizer.
// Nobody participates yet; use AddParticipant.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, creator primitive.ObjectID) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Description:  "Test event description",
		StartDate:    now.Add(24 * time.Hour),
		EndDate:      now.Add(26 * time.Hour),
		Location:     "Test Hall",
		IsPublic:     true,
		Organizers:   []primitive.ObjectID{creator},
		Participants: []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateGroupEvent creates an event linked to the given group.
func (f *Fixtures) CreateGroupEvent(ctx context.Context, name string, creator, groupID primitive.ObjectID) models.Event {
	f.t.Helper()

	event := f.CreateEvent(ctx, name, creator)
	_, err := f.db.Collection("events").UpdateByID(ctx, event.ID,
		bson.M{"$set": bson.M{"group_id": groupID}})
	if err != nil {
		f.t.Fatalf("failed to link test event to group: %v", err)
	}
	event.GroupID = &groupID
	return event
}

// AddParticipant appends a user to the event's participant list.
func (f *Fixtures) AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("events").UpdateByID(ctx, eventID,
		bson.M{"$addToSet": bson.M{"participants": userID}})
	if err != nil {
		f.t.Fatalf("failed to add event participant: %v", err)
	}
}

// CreateAlbum creates an album on the given event.
func (f *Fixtures) CreateAlbum(ctx context.Context, title string, eventID, creator primitive.ObjectID) models.Album {
	f.t.Helper()

	now := time.Now().UTC()
	album := models.Album{
		ID:        primitive.NewObjectID(),
		Title:     title,
		EventID:   eventID,
		CreatedBy: &creator,
		Photos:    []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("albums").InsertOne(ctx, album); err != nil {
		f.t.Fatalf("failed to create test album: %v", err)
	}
	return album
}

// CreatePhoto creates a photo in the given album.
func (f *Fixtures) CreatePhoto(ctx context.Context, title string, albumID, uploader primitive.ObjectID) models.Photo {
	f.t.Helper()

	now := time.Now().UTC()
	photo := models.Photo{
		ID:         primitive.NewObjectID(),
		Title:      title,
		URL:        "https://photos.example.com/" + primitive.NewObjectID().Hex() + ".jpg",
		AlbumID:    albumID,
		UploadedBy: uploader,
		Comments:   []models.PhotoComment{},
		Likes:      []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("photos").InsertOne(ctx, photo); err != nil {
		f.t.Fatalf("failed to create test photo: %v", err)
	}
	return photo
}

// CreatePoll creates an active poll on the given event with one
// question and the given option texts.
func (f *Fixtures) CreatePoll(ctx context.Context, title string, eventID, creator primitive.ObjectID, optionTexts ...string) models.Poll {
	f.t.Helper()

	now := time.Now().UTC()
	options := make([]models.PollOption, 0, len(optionTexts))
	for _, txt := range optionTexts {
		options = append(options, models.PollOption{ID: primitive.NewObjectID(), Text: txt})
	}
	poll := models.Poll{
		ID:        primitive.NewObjectID(),
		Title:     title,
		EventID:   eventID,
		CreatedBy: creator,
		Questions: []models.PollQuestion{{
			ID:           primitive.NewObjectID(),
			QuestionText: "Pick one",
			Options:      options,
			CreatedAt:    now,
		}},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("polls").InsertOne(ctx, poll); err != nil {
		f.t.Fatalf("failed to create test poll: %v", err)
	}
	return poll
}

// CreateTicketType creates an active ticket type for the given event.
func (f *Fixtures) CreateTicketType(ctx context.Context, name string, eventID primitive.ObjectID, price float64, limit int64) models.TicketType {
	f.t.Helper()

	now := time.Now().UTC()
	tt := models.TicketType{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Price:         price,
		QuantityLimit: limit,
		EventID:       eventID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("ticket_types").InsertOne(ctx, tt); err != nil {
		f.t.Fatalf("failed to create test ticket type: %v", err)
	}
	return tt
}

// Buyer returns ticket buyer details with the given email.
func Buyer(email string) models.BuyerInfo {
	return models.BuyerInfo{
		Firstname: "Pat",
		Lastname:  "Buyer",
		Email:     email,
		Address: models.PostalAddress{
			Street:     "1 Rue des Fêtes",
			City:       "Lyon",
			PostalCode: "69001",
			Country:    "FR",
		},
	}
}
