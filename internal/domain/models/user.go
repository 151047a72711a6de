// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. Users do not own other entities beyond the
// content they author; authorship is recorded on the entity side
// (createdBy, uploadedBy, author).
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	EmailCI   string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`

	// PasswordHash is a bcrypt hash. It is never serialized to JSON and
	// is empty for accounts created through Google sign-in.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Age    int    `bson:"age,omitempty" json:"age,omitempty"`
	City   string `bson:"city,omitempty" json:"city,omitempty"`
	Phone  string `bson:"phone,omitempty" json:"phone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
