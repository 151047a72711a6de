// internal/app/store/polls/pollstore.go
package pollstore

import (
	"context"
	"errors"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	polls *mongo.Collection
	votes *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		polls: db.Collection("polls"),
		votes: db.Collection("poll_votes"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Poll, error) {
	var p models.Poll
	if err := s.polls.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Poll{}, apperr.New(apperr.NotFound, "poll not found")
		}
		return models.Poll{}, apperr.Wrap(apperr.Internal, err, "fetch poll")
	}
	return p, nil
}

// Create inserts a poll with generated question and option ids. Every
// question needs at least two options.
func (s *Store) Create(ctx context.Context, p models.Poll, creator primitive.ObjectID) (models.Poll, error) {
	if p.Title == "" {
		return models.Poll{}, apperr.New(apperr.InvalidArgument, "title is required")
	}
	if p.EventID.IsZero() {
		return models.Poll{}, apperr.New(apperr.InvalidArgument, "a poll must belong to an event")
	}
	if len(p.Questions) == 0 {
		return models.Poll{}, apperr.New(apperr.InvalidArgument, "a poll needs at least one question")
	}

	now := time.Now().UTC()
	for i := range p.Questions {
		q := &p.Questions[i]
		if q.QuestionText == "" {
			return models.Poll{}, apperr.New(apperr.InvalidArgument, "question text is required")
		}
		if len(q.Options) < 2 {
			return models.Poll{}, apperr.New(apperr.InvalidArgument, "a question needs at least two options")
		}
		q.ID = primitive.NewObjectID()
		q.CreatedAt = now
		for j := range q.Options {
			if q.Options[j].Text == "" {
				return models.Poll{}, apperr.New(apperr.InvalidArgument, "option text is required")
			}
			q.Options[j].ID = primitive.NewObjectID()
		}
	}

	p.ID = primitive.NewObjectID()
	p.CreatedBy = creator
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.polls.InsertOne(ctx, p); err != nil {
		return models.Poll{}, apperr.Wrap(apperr.Internal, err, "insert poll")
	}
	return p, nil
}

type Patch struct {
	Title       *string
	Description *string
	IsActive    *bool
	EndDate     *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Poll, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	if p.EndDate != nil {
		set["end_date"] = *p.EndDate
	}

	var poll models.Poll
	err := s.polls.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&poll)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Poll{}, apperr.New(apperr.NotFound, "poll not found")
		}
		return models.Poll{}, apperr.Wrap(apperr.Internal, err, "update poll")
	}
	return poll, nil
}

// Delete removes a poll and all of its recorded votes.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.polls.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete poll")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "poll not found")
	}
	if _, err := s.votes.DeleteMany(ctx, bson.M{"poll_id": id}); err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete poll votes")
	}
	return nil
}

// ListByEvent pages an event's polls, newest first.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID, skip, limit int64) ([]models.Poll, int64, error) {
	filter := bson.M{"event_id": eventID}

	total, err := s.polls.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "count polls")
	}

	cur, err := s.polls.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "list polls")
	}
	defer cur.Close(ctx)

	polls := []models.Poll{}
	if err := cur.All(ctx, &polls); err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, err, "decode polls")
	}
	return polls, total, nil
}

// Ballot is one question/option pair of a vote submission.
type Ballot struct {
	QuestionID primitive.ObjectID `json:"question_id"`
	OptionID   primitive.ObjectID `json:"option_id"`
}

// CastVotes records the user's choices. The whole batch is validated
// against the poll before anything is written, so a bad pair leaves
// every question untouched. Each valid pair upserts the user's vote
// document for that question, which makes revoting idempotent.
func (s *Store) CastVotes(ctx context.Context, poll models.Poll, userID primitive.ObjectID, ballots []Ballot) error {
	if len(ballots) == 0 {
		return apperr.New(apperr.InvalidArgument, "at least one vote is required")
	}
	if !poll.AcceptsVotes(time.Now().UTC()) {
		return apperr.New(apperr.InvalidArgument, "this poll is no longer accepting votes")
	}

	seen := make(map[primitive.ObjectID]bool, len(ballots))
	for _, b := range ballots {
		q := poll.FindQuestion(b.QuestionID)
		if q == nil {
			return apperr.New(apperr.NotFound, "question not found in this poll")
		}
		if !q.HasOption(b.OptionID) {
			return apperr.New(apperr.NotFound, "option not found in this question")
		}
		if seen[b.QuestionID] {
			return apperr.New(apperr.InvalidArgument, "duplicate votes for the same question")
		}
		seen[b.QuestionID] = true
	}

	now := time.Now().UTC()
	for _, b := range ballots {
		_, err := s.votes.UpdateOne(ctx,
			bson.M{"poll_id": poll.ID, "question_id": b.QuestionID, "user_id": userID},
			bson.M{
				"$set": bson.M{
					"option_id":  b.OptionID,
					"updated_at": now,
				},
				"$setOnInsert": bson.M{
					"poll_id":     poll.ID,
					"question_id": b.QuestionID,
					"user_id":     userID,
					"created_at":  now,
				},
			},
			options.Update().SetUpsert(true))
		if err != nil {
			return apperr.Wrap(apperr.Internal, err, "record vote")
		}
	}
	return nil
}

// VotesFor returns all recorded votes for the poll.
func (s *Store) VotesFor(ctx context.Context, pollID primitive.ObjectID) ([]models.PollVote, error) {
	cur, err := s.votes.Find(ctx, bson.M{"poll_id": pollID})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "fetch poll votes")
	}
	defer cur.Close(ctx)

	votes := []models.PollVote{}
	if err := cur.All(ctx, &votes); err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "decode poll votes")
	}
	return votes, nil
}

// Results computes the tally for every question of the poll.
func (s *Store) Results(ctx context.Context, poll models.Poll) ([]QuestionResult, error) {
	votes, err := s.VotesFor(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	return Tally(poll, votes), nil
}
