package polls_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/gatherhub/gatherhub/internal/app/features/polls"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func newTestHandler(t *testing.T) (*polls.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := polls.NewHandler(db, zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func voteBody(p models.Poll) map[string]any {
	q := p.Questions[0]
	return map[string]any{
		"votes": []map[string]any{{
			"question_id": q.ID.Hex(),
			"option_id":   q.Options[0].ID.Hex(),
		}},
	}
}

func castVote(t *testing.T, handler *polls.Handler, p models.Poll, uid primitive.ObjectID) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/polls/"+p.ID.Hex()+"/vote", voteBody(p))
	req = testutil.AsUser(req, uid)
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleVote(rec, req)
	return rec
}

func TestHandleVote_OrganizerMustJoinFirst(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", organizer)
	poll := fixtures.CreatePoll(ctx, "Lunch spot", event.ID, organizer, "Pizza", "Sushi")

	testutil.AssertStatus(t, castVote(t, handler, poll, organizer), http.StatusForbidden)

	count, err := fixtures.DB().Collection("poll_votes").CountDocuments(ctx, bson.M{"poll_id": poll.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no votes recorded, got %d", count)
	}

	fixtures.AddParticipant(ctx, event.ID, organizer)
	testutil.AssertStatus(t, castVote(t, handler, poll, organizer), http.StatusOK)
}

func TestHandleVote_ParticipantsOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := primitive.NewObjectID()
	participant := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", organizer)
	fixtures.AddParticipant(ctx, event.ID, participant)
	poll := fixtures.CreatePoll(ctx, "Lunch spot", event.ID, organizer, "Pizza", "Sushi")

	testutil.AssertStatus(t, castVote(t, handler, poll, participant), http.StatusOK)
	testutil.AssertStatus(t, castVote(t, handler, poll, primitive.NewObjectID()), http.StatusForbidden)
}

func createPollRequest(t *testing.T, eventID primitive.ObjectID, uid primitive.ObjectID) *http.Request {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/polls/event/"+eventID.Hex(), map[string]any{
		"title": "Lunch spot",
		"questions": []map[string]any{{
			"question_text": "Pick one",
			"options":       []string{"Pizza", "Sushi"},
		}},
	})
	req = testutil.AsUser(req, uid)
	return testutil.WithChiURLParam(req, "eventID", eventID.Hex())
}

func TestHandleCreate_ParticipantMayCreate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := primitive.NewObjectID()
	participant := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Team Day", organizer)
	fixtures.AddParticipant(ctx, event.ID, participant)

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, createPollRequest(t, event.ID, participant))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = httptest.NewRecorder()
	handler.HandleCreate(rec, createPollRequest(t, event.ID, organizer))
	testutil.AssertStatus(t, rec, http.StatusCreated)
}

func TestHandleCreate_OutsiderForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Team Day", primitive.NewObjectID())

	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, createPollRequest(t, event.ID, primitive.NewObjectID()))
	testutil.AssertStatus(t, rec, http.StatusForbidden)
}
