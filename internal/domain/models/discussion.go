// internal/domain/models/discussion.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion link validation errors.
var (
	ErrDiscussionBothLinks = errors.New("a discussion can be linked to a group or an event, not both")
	ErrDiscussionNoLink    = errors.New("a discussion must be linked to a group or an event")
)

// Reply is a nested reply under a discussion message.
type Reply struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Message is a top-level discussion message with an ordered reply list.
// Messages and replies are independently addressable by id.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	Replies   []Reply            `bson:"replies" json:"replies"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Discussion is an append-only threaded conversation linked to exactly
// one of a group or an event, never both and never neither.
type Discussion struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	LinkedToGroup *primitive.ObjectID `bson:"linked_to_group,omitempty" json:"linked_to_group,omitempty"`
	LinkedToEvent *primitive.ObjectID `bson:"linked_to_event,omitempty" json:"linked_to_event,omitempty"`

	Messages []Message `bson:"messages" json:"messages"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidateLink enforces the group-XOR-event invariant.
func (d *Discussion) ValidateLink() error {
	switch {
	case d.LinkedToGroup != nil && d.LinkedToEvent != nil:
		return ErrDiscussionBothLinks
	case d.LinkedToGroup == nil && d.LinkedToEvent == nil:
		return ErrDiscussionNoLink
	}
	return nil
}

// FindMessage returns a pointer to the message with the given id, or nil.
func (d *Discussion) FindMessage(id primitive.ObjectID) *Message {
	for i := range d.Messages {
		if d.Messages[i].ID == id {
			return &d.Messages[i]
		}
	}
	return nil
}
