package albumstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	albumstore "github.com/gatherhub/gatherhub/internal/app/store/albums"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", creator)

	created, err := store.Create(ctx, models.Album{
		Title:   "Ceremony",
		EventID: event.ID,
	}, creator)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.CreatedBy == nil || *created.CreatedBy != creator {
		t.Error("expected creator to be recorded")
	}
	if created.Photos == nil {
		t.Error("expected empty photo list, not nil")
	}
}

func TestStore_Create_RequiresTitleAndEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Album{EventID: primitive.NewObjectID()}, primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument without title, got %v", err)
	}

	_, err = store.Create(ctx, models.Album{Title: "Ceremony"}, primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument without event, got %v", err)
	}
}

func TestStore_LinkPhoto(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", creator)
	album := fixtures.CreateAlbum(ctx, "Ceremony", event.ID, creator)
	photoID := primitive.NewObjectID()

	if err := store.LinkPhoto(ctx, album.ID, photoID); err != nil {
		t.Fatalf("LinkPhoto failed: %v", err)
	}
	got, err := store.GetByID(ctx, album.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Photos) != 1 || got.Photos[0] != photoID {
		t.Error("expected photo id to appear in album list")
	}

	if err := store.UnlinkPhoto(ctx, album.ID, photoID); err != nil {
		t.Fatalf("UnlinkPhoto failed: %v", err)
	}
	got, err = store.GetByID(ctx, album.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Photos) != 0 {
		t.Error("expected photo id to be removed from album list")
	}
}

func TestStore_LinkPhoto_UnknownAlbum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.LinkPhoto(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound for unknown album, got %v", err)
	}
}

func TestStore_ListByEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := albumstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	event := fixtures.CreateEvent(ctx, "Wedding", creator)
	other := fixtures.CreateEvent(ctx, "Birthday", creator)
	fixtures.CreateAlbum(ctx, "Ceremony", event.ID, creator)
	fixtures.CreateAlbum(ctx, "Cake", other.ID, creator)

	albums, total, err := store.ListByEvent(ctx, event.ID, 0, 10)
	if err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}
	if total != 1 || len(albums) != 1 {
		t.Fatalf("got %d albums (total %d), want only the event's album", len(albums), total)
	}
}
