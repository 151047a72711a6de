package models_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gatherhub/gatherhub/internal/domain/models"
)

func TestPoll_AcceptsVotes(t *testing.T) {
	now := time.Now().UTC()
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	p := models.Poll{IsActive: true}
	if !p.AcceptsVotes(now) {
		t.Error("active poll without end date should accept votes")
	}

	p = models.Poll{IsActive: false}
	if p.AcceptsVotes(now) {
		t.Error("inactive poll should not accept votes")
	}

	p = models.Poll{IsActive: true, EndDate: &later}
	if !p.AcceptsVotes(now) {
		t.Error("poll before its end date should accept votes")
	}

	p = models.Poll{IsActive: true, EndDate: &earlier}
	if p.AcceptsVotes(now) {
		t.Error("poll past its end date should not accept votes")
	}
}

func TestPoll_FindQuestionAndHasOption(t *testing.T) {
	opt := models.PollOption{ID: primitive.NewObjectID(), Text: "Saturday"}
	q := models.PollQuestion{ID: primitive.NewObjectID(), Options: []models.PollOption{opt}}
	p := models.Poll{Questions: []models.PollQuestion{q}}

	found := p.FindQuestion(q.ID)
	if found == nil {
		t.Fatal("expected question to be found")
	}
	if !found.HasOption(opt.ID) {
		t.Error("expected option to be found on question")
	}
	if found.HasOption(primitive.NewObjectID()) {
		t.Error("unknown option id should not be found")
	}
	if p.FindQuestion(primitive.NewObjectID()) != nil {
		t.Error("unknown question id should return nil")
	}
}
