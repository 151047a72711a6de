package photostore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	photostore "github.com/gatherhub/gatherhub/internal/app/store/photos"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uploader := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", uploader)
	album := fixtures.CreateAlbum(ctx, "Ceremony", event.ID, uploader)

	created, err := store.Create(ctx, models.Photo{
		Title:   "First dance",
		URL:     "https://photos.example.com/dance.jpg",
		AlbumID: album.ID,
	}, uploader)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.UploadedBy != uploader {
		t.Error("expected uploader to be recorded")
	}
	if created.Comments == nil || created.Likes == nil {
		t.Error("expected empty comment and like lists, not nil")
	}
}

func TestStore_Create_RequiresURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Photo{
		Title:   "No file",
		AlbumID: primitive.NewObjectID(),
	}, primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument without url, got %v", err)
	}
}

func TestStore_Comments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uploader := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", uploader)
	album := fixtures.CreateAlbum(ctx, "Ceremony", event.ID, uploader)
	photo := fixtures.CreatePhoto(ctx, "First dance", album.ID, uploader)

	author := primitive.NewObjectID()
	comment, err := store.AddComment(ctx, photo.ID, author, "Lovely shot")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID.IsZero() || comment.Author != author {
		t.Error("expected comment with generated id and author")
	}

	if err := store.DeleteComment(ctx, photo.ID, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	got, err := store.GetByID(ctx, photo.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Comments) != 0 {
		t.Errorf("got %d comments after delete, want 0", len(got.Comments))
	}
}

func TestStore_ToggleLike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := photostore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uploader := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", uploader)
	album := fixtures.CreateAlbum(ctx, "Ceremony", event.ID, uploader)
	photo := fixtures.CreatePhoto(ctx, "First dance", album.ID, uploader)

	fan := primitive.NewObjectID()
	liked, err := store.ToggleLike(ctx, photo.ID, fan)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !liked {
		t.Error("first toggle should like the photo")
	}

	liked, err = store.ToggleLike(ctx, photo.ID, fan)
	if err != nil {
		t.Fatalf("second ToggleLike failed: %v", err)
	}
	if liked {
		t.Error("second toggle should remove the like")
	}

	got, err := store.GetByID(ctx, photo.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Likes) != 0 {
		t.Errorf("got %d likes after un-like, want 0", len(got.Likes))
	}
}
