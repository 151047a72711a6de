package groupstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	groupstore "github.com/gatherhub/gatherhub/internal/app/store/groups"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Group{
		Name:        "Café des Langues",
		Description: "Weekly language exchange",
	}, creator)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Type != models.GroupPublic {
		t.Errorf("type: got %q, want default public", created.Type)
	}
	if created.NameCI != "cafe des langues" {
		t.Errorf("NameCI: got %q, want folded name", created.NameCI)
	}
	if len(created.Administrators) != 1 || created.Administrators[0] != creator {
		t.Error("expected creator to be the sole administrator")
	}
	if len(created.Members) != 0 {
		t.Error("expected no plain members at creation")
	}
}

func TestStore_Create_InvalidType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Group{Name: "X", Type: "hidden"}, primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument for bad type, got %v", err)
	}
}

func TestStore_AddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Hiking Club", models.GroupPublic, primitive.NewObjectID())
	member := primitive.NewObjectID()

	if err := store.AddMember(ctx, group.ID, member); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	err := store.AddMember(ctx, group.ID, member)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for repeat join, got %v", err)
	}
}

func TestStore_AddMember_SecretGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Inner Circle", models.GroupSecret, primitive.NewObjectID())

	err := store.AddMember(ctx, group.ID, primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("expected Forbidden joining a secret group, got %v", err)
	}
}

func TestStore_RemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	group := fixtures.CreateGroup(ctx, "Hiking Club", models.GroupPublic, admin)
	fixtures.AddGroupMember(ctx, group.ID, member)

	if err := store.RemoveMember(ctx, group.ID, member); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsMember(member) {
		t.Error("expected member to be removed")
	}
}

func TestStore_RemoveMember_AdminCannotLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	group := fixtures.CreateGroup(ctx, "Hiking Club", models.GroupPublic, admin)

	err := store.RemoveMember(ctx, group.ID, admin)
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument for administrator leaving, got %v", err)
	}
}

func TestStore_AddAdministrator_Promotion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	member := primitive.NewObjectID()
	group := fixtures.CreateGroup(ctx, "Hiking Club", models.GroupPublic, creator)
	fixtures.AddGroupMember(ctx, group.ID, member)

	if err := store.AddAdministrator(ctx, group.ID, member); err != nil {
		t.Fatalf("AddAdministrator failed: %v", err)
	}
	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsAdministrator(member) {
		t.Error("expected member to be promoted to administrator")
	}
	if got.IsMember(member) {
		t.Error("expected promoted user to leave the member list")
	}
	if got.Creator() != creator {
		t.Error("promotion must not displace the creator")
	}
}

func TestStore_ListPublic_ExcludesPrivateAndSecret(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	fixtures.CreateGroup(ctx, "Open Group", models.GroupPublic, creator)
	fixtures.CreateGroup(ctx, "Closed Group", models.GroupPrivate, creator)
	fixtures.CreateGroup(ctx, "Hidden Group", models.GroupSecret, creator)

	groups, total, err := store.ListPublic(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if total != 1 || len(groups) != 1 {
		t.Fatalf("got %d groups (total %d), want exactly the public one", len(groups), total)
	}
	if groups[0].Name != "Open Group" {
		t.Errorf("got %q, want Open Group", groups[0].Name)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, "Hiking Club", models.GroupPublic, primitive.NewObjectID())

	if err := store.Delete(ctx, group.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err := store.GetByID(ctx, group.ID)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}
