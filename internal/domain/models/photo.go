// internal/domain/models/photo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoComment is a comment embedded on a photo.
type PhotoComment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Photo belongs to exactly one album. Manage operations are restricted
// to the uploader; read/comment/like access is inherited from the
// album's access chain.
type Photo struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	URL     string             `bson:"url" json:"url"`
	Caption string             `bson:"caption,omitempty" json:"caption,omitempty"`

	AlbumID    primitive.ObjectID `bson:"album_id" json:"album_id"`
	UploadedBy primitive.ObjectID `bson:"uploaded_by" json:"uploadedBy"`

	Comments []PhotoComment       `bson:"comments" json:"comments"`
	Likes    []primitive.ObjectID `bson:"likes" json:"likes"` // at most one entry per user

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LikedBy reports whether userID already likes the photo.
func (p *Photo) LikedBy(userID primitive.ObjectID) bool {
	return containsID(p.Likes, userID)
}
