package pollstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	pollstore "github.com/gatherhub/gatherhub/internal/app/store/polls"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)

	created, err := store.Create(ctx, models.Poll{
		Title:   "Lunch",
		EventID: event.ID,
		Questions: []models.PollQuestion{{
			QuestionText: "Where do we eat?",
			Options: []models.PollOption{
				{Text: "Pizza"},
				{Text: "Sushi"},
			},
		}},
	}, creator)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !created.IsActive {
		t.Error("expected a new poll to be active")
	}
	if created.Questions[0].ID.IsZero() {
		t.Error("expected question ids to be generated")
	}
	for _, o := range created.Questions[0].Options {
		if o.ID.IsZero() {
			t.Error("expected option ids to be generated")
		}
	}
}

func TestStore_Create_RequiresTwoOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)

	_, err := store.Create(ctx, models.Poll{
		Title:   "Lunch",
		EventID: event.ID,
		Questions: []models.PollQuestion{{
			QuestionText: "Where do we eat?",
			Options:      []models.PollOption{{Text: "Pizza"}},
		}},
	}, creator)
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument for single-option question, got %v", err)
	}
}

func TestStore_CastVotes_RevoteReplacesChoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	voter := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)
	poll := fixtures.CreatePoll(ctx, "Lunch", event.ID, creator, "Pizza", "Sushi")
	q := poll.Questions[0]

	first := []pollstore.Ballot{{QuestionID: q.ID, OptionID: q.Options[0].ID}}
	if err := store.CastVotes(ctx, poll, voter, first); err != nil {
		t.Fatalf("first CastVotes failed: %v", err)
	}

	second := []pollstore.Ballot{{QuestionID: q.ID, OptionID: q.Options[1].ID}}
	if err := store.CastVotes(ctx, poll, voter, second); err != nil {
		t.Fatalf("revote failed: %v", err)
	}

	votes, err := store.VotesFor(ctx, poll.ID)
	if err != nil {
		t.Fatalf("VotesFor failed: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("got %d vote documents, want 1 (revote replaces)", len(votes))
	}
	if votes[0].OptionID != q.Options[1].ID {
		t.Error("expected the vote to carry the latest choice")
	}
}

func TestStore_CastVotes_BadOptionRejectsWholeBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	voter := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)
	poll := fixtures.CreatePoll(ctx, "Lunch", event.ID, creator, "Pizza", "Sushi")
	q := poll.Questions[0]

	ballots := []pollstore.Ballot{
		{QuestionID: q.ID, OptionID: q.Options[0].ID},
		{QuestionID: q.ID, OptionID: primitive.NewObjectID()}, // unknown option
	}
	err := store.CastVotes(ctx, poll, voter, ballots)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound for unknown option, got %v", err)
	}

	votes, err := store.VotesFor(ctx, poll.ID)
	if err != nil {
		t.Fatalf("VotesFor failed: %v", err)
	}
	if len(votes) != 0 {
		t.Errorf("got %d votes, want 0 (bad batch writes nothing)", len(votes))
	}
}

func TestStore_CastVotes_ClosedPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)
	poll := fixtures.CreatePoll(ctx, "Lunch", event.ID, creator, "Pizza", "Sushi")
	past := time.Now().UTC().Add(-time.Hour)
	poll.EndDate = &past
	q := poll.Questions[0]

	err := store.CastVotes(ctx, poll, primitive.NewObjectID(),
		[]pollstore.Ballot{{QuestionID: q.ID, OptionID: q.Options[0].ID}})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument for closed poll, got %v", err)
	}
}

func TestStore_Results(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)
	poll := fixtures.CreatePoll(ctx, "Lunch", event.ID, creator, "Pizza", "Sushi")
	q := poll.Questions[0]

	for i := 0; i < 3; i++ {
		ballots := []pollstore.Ballot{{QuestionID: q.ID, OptionID: q.Options[0].ID}}
		if i == 2 {
			ballots[0].OptionID = q.Options[1].ID
		}
		if err := store.CastVotes(ctx, poll, primitive.NewObjectID(), ballots); err != nil {
			t.Fatalf("CastVotes failed: %v", err)
		}
	}

	results, err := store.Results(ctx, poll)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	got := results[0]
	if got.TotalVotes != 3 {
		t.Errorf("total votes: got %d, want 3", got.TotalVotes)
	}
	if got.Options[0].VoteCount != 2 || got.Options[1].VoteCount != 1 {
		t.Errorf("counts: got %d/%d, want 2/1", got.Options[0].VoteCount, got.Options[1].VoteCount)
	}
}

func TestStore_Delete_RemovesVotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pollstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", creator)
	poll := fixtures.CreatePoll(ctx, "Lunch", event.ID, creator, "Pizza", "Sushi")
	q := poll.Questions[0]

	err := store.CastVotes(ctx, poll, primitive.NewObjectID(),
		[]pollstore.Ballot{{QuestionID: q.ID, OptionID: q.Options[0].ID}})
	if err != nil {
		t.Fatalf("CastVotes failed: %v", err)
	}

	if err := store.Delete(ctx, poll.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	votes, err := store.VotesFor(ctx, poll.ID)
	if err != nil {
		t.Fatalf("VotesFor failed: %v", err)
	}
	if len(votes) != 0 {
		t.Errorf("got %d votes after poll delete, want 0", len(votes))
	}
}
