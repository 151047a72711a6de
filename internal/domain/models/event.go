// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a gathering with organizers and participants, optionally
// created inside a group.
//
// Organizers is never empty; the first element is the creator, who alone
// may delete the event. IsPublic is always the complement of IsPrivate.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	StartDate   time.Time          `bson:"start_date" json:"startDate"`
	EndDate     time.Time          `bson:"end_date" json:"endDate"`
	Location    string             `bson:"location" json:"location"`
	CoverPhoto  string             `bson:"cover_photo,omitempty" json:"coverPhoto,omitempty"`

	IsPrivate bool `bson:"is_private" json:"isPrivate"`
	IsPublic  bool `bson:"is_public" json:"is_public"`

	Organizers   []primitive.ObjectID `bson:"organizers" json:"organizers"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"groupId,omitempty"`

	HasTicketing bool `bson:"has_ticketing" json:"has_ticketing"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Creator returns the event's creator (first organizer).
func (e *Event) Creator() primitive.ObjectID {
	if len(e.Organizers) == 0 {
		return primitive.NilObjectID
	}
	return e.Organizers[0]
}

// IsOrganizer reports whether userID organizes the event.
func (e *Event) IsOrganizer(userID primitive.ObjectID) bool {
	return containsID(e.Organizers, userID)
}

// IsParticipant reports whether userID participates in the event.
func (e *Event) IsParticipant(userID primitive.ObjectID) bool {
	return containsID(e.Participants, userID)
}
