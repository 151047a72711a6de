// internal/domain/models/poll.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PollOption is one selectable answer. Votes are not embedded here;
// the authoritative record of who chose what lives in the poll_votes
// collection (one document per poll/question/user).
type PollOption struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Text string             `bson:"text" json:"text"`
}

// PollQuestion is a single-choice question with at least two options.
type PollQuestion struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	QuestionText string             `bson:"question_text" json:"question_text"`
	Options      []PollOption       `bson:"options" json:"options"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Poll belongs to one event. Only event participants may vote; the
// creator alone may edit it.
type Poll struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EventID     primitive.ObjectID `bson:"event_id" json:"event_id"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`

	Questions []PollQuestion `bson:"questions" json:"questions"`

	IsActive bool       `bson:"is_active" json:"is_active"`
	EndDate  *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AcceptsVotes reports whether the poll is open for voting at the given
// instant.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	return p.EndDate == nil || now.Before(*p.EndDate)
}

// FindQuestion returns the question with the given id, or nil.
func (p *Poll) FindQuestion(id primitive.ObjectID) *PollQuestion {
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return &p.Questions[i]
		}
	}
	return nil
}

// HasOption reports whether the question contains the given option id.
func (q *PollQuestion) HasOption(id primitive.ObjectID) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// PollVote records a user's current choice for one question of a poll.
// The (poll_id, question_id, user_id) triple carries a unique index, so
// a user holds at most one choice per question at any time; revoting
// replaces the document in place.
type PollVote struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PollID     primitive.ObjectID `bson:"poll_id" json:"poll_id"`
	QuestionID primitive.ObjectID `bson:"question_id" json:"question_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	OptionID   primitive.ObjectID `bson:"option_id" json:"option_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
