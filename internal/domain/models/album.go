// internal/domain/models/album.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album belongs to exactly one event and lists its photos in upload
// order. The photo list is kept in sync by the photo store on photo
// create/delete.
type Album struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EventID     primitive.ObjectID `bson:"event_id" json:"event_id"`

	CreatedBy *primitive.ObjectID  `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	Photos    []primitive.ObjectID `bson:"photos" json:"photos"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsCreator reports whether userID created the album.
func (a *Album) IsCreator(userID primitive.ObjectID) bool {
	return a.CreatedBy != nil && *a.CreatedBy == userID
}
