package models_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gatherhub/gatherhub/internal/domain/models"
)

func TestDiscussion_ValidateLink(t *testing.T) {
	groupID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()

	d := models.Discussion{LinkedToGroup: &groupID}
	if err := d.ValidateLink(); err != nil {
		t.Errorf("group-linked discussion should be valid, got %v", err)
	}

	d = models.Discussion{LinkedToEvent: &eventID}
	if err := d.ValidateLink(); err != nil {
		t.Errorf("event-linked discussion should be valid, got %v", err)
	}

	d = models.Discussion{LinkedToGroup: &groupID, LinkedToEvent: &eventID}
	if err := d.ValidateLink(); !errors.Is(err, models.ErrDiscussionBothLinks) {
		t.Errorf("expected ErrDiscussionBothLinks, got %v", err)
	}

	d = models.Discussion{}
	if err := d.ValidateLink(); !errors.Is(err, models.ErrDiscussionNoLink) {
		t.Errorf("expected ErrDiscussionNoLink, got %v", err)
	}
}

func TestDiscussion_FindMessage(t *testing.T) {
	m1 := models.Message{ID: primitive.NewObjectID(), Content: "first"}
	m2 := models.Message{ID: primitive.NewObjectID(), Content: "second"}
	d := models.Discussion{Messages: []models.Message{m1, m2}}

	if got := d.FindMessage(m2.ID); got == nil || got.Content != "second" {
		t.Errorf("expected to find second message, got %+v", got)
	}
	if got := d.FindMessage(primitive.NewObjectID()); got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}
