package ticketstore_test

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	ticketstore "github.com/gatherhub/gatherhub/internal/app/store/tickets"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"github.com/gatherhub/gatherhub/internal/testutil"
)

func TestStore_Purchase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)

	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	if !strings.HasPrefix(ticket.TicketNumber, "TKT-") {
		t.Errorf("ticket number %q missing TKT- prefix", ticket.TicketNumber)
	}
	if ticket.Status != models.TicketActive {
		t.Errorf("status: got %q, want active", ticket.Status)
	}
	if ticket.EventID != event.ID {
		t.Error("expected ticket to carry the type's event")
	}
	if ticket.BuyerInfo.Email != "alice@example.com" {
		t.Errorf("buyer email: got %q, want folded email", ticket.BuyerInfo.Email)
	}

	got, err := store.Types().GetByID(ctx, tt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.QuantitySold != 1 {
		t.Errorf("quantity sold: got %d, want 1", got.QuantitySold)
	}
}

func TestStore_Purchase_SoldOut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Limited", event.ID, 25, 1)

	if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer("first@example.com")); err != nil {
		t.Fatalf("first Purchase failed: %v", err)
	}

	_, err := store.Purchase(ctx, tt.ID, testutil.Buyer("second@example.com"))
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict when sold out, got %v", err)
	}

	got, err := store.Types().GetByID(ctx, tt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.QuantitySold != 1 {
		t.Errorf("quantity sold: got %d, want inventory unchanged at 1", got.QuantitySold)
	}
}

func TestStore_Purchase_OneActiveTicketPerBuyer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)

	if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com")); err != nil {
		t.Fatalf("first Purchase failed: %v", err)
	}

	_, err := store.Purchase(ctx, tt.ID, testutil.Buyer("Alice@Example.com"))
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict for second active ticket same buyer, got %v", err)
	}

	// The failed purchase must release its reservation.
	got, err := store.Types().GetByID(ctx, tt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.QuantitySold != 1 {
		t.Errorf("quantity sold: got %d, want 1 after released reservation", got.QuantitySold)
	}
}

func TestStore_Purchase_InactiveType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Early Bird", event.ID, 15, 50)

	inactive := false
	if _, err := store.Types().Update(ctx, tt.ID, ticketstore.TypePatch{IsActive: &inactive}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	_, err := store.Purchase(ctx, tt.ID, testutil.Buyer("late@example.com"))
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument buying an inactive type, got %v", err)
	}
}

func TestStore_Use(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	used, err := store.Use(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if !used.IsUsed || used.UsedAt == nil {
		t.Error("expected used ticket to record used_at")
	}

	again, err := store.Use(ctx, ticket.ID)
	if !apperr.IsKind(err, apperr.AlreadyInTerminalState) {
		t.Fatalf("expected AlreadyInTerminalState on second scan, got %v", err)
	}
	if again.UsedAt == nil || !again.UsedAt.Equal(*used.UsedAt) {
		t.Error("expected second scan to report the original used_at")
	}
}

func TestStore_Use_CancelledTicketReportsCancellation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := store.Cancel(ctx, ticket.ID, ""); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err = store.Use(ctx, ticket.ID)
	if !apperr.IsKind(err, apperr.AlreadyInTerminalState) {
		t.Fatalf("expected AlreadyInTerminalState scanning a cancelled ticket, got %v", err)
	}
	if msg := apperr.Message(err); !strings.Contains(msg, "cancelled") {
		t.Errorf("expected the error to name the cancellation, got %q", msg)
	}
}

func TestStore_Cancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	cancelled, err := store.Cancel(ctx, ticket.ID, "")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.TicketCancelled || cancelled.CancelledAt == nil {
		t.Error("expected cancelled status with timestamp")
	}
	if cancelled.CancellationReason == "" {
		t.Error("expected the default cancellation reason when none given")
	}

	// Cancelling returns the inventory unit.
	got, err := store.Types().GetByID(ctx, tt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.QuantitySold != 0 {
		t.Errorf("quantity sold: got %d, want 0 after cancellation", got.QuantitySold)
	}

	_, err = store.Cancel(ctx, ticket.ID, "changed my mind")
	if !apperr.IsKind(err, apperr.AlreadyInTerminalState) {
		t.Errorf("expected AlreadyInTerminalState cancelling twice, got %v", err)
	}
}

func TestStore_Cancel_UsedTicket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := store.Use(ctx, ticket.ID); err != nil {
		t.Fatalf("Use failed: %v", err)
	}

	_, err = store.Cancel(ctx, ticket.ID, "")
	if !apperr.IsKind(err, apperr.AlreadyInTerminalState) {
		t.Errorf("expected AlreadyInTerminalState cancelling a used ticket, got %v", err)
	}
}

func TestStore_CancelledBuyerCanRepurchase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)

	first, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := store.Cancel(ctx, first.ID, ""); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// The one-ticket-per-buyer rule only counts active tickets.
	if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com")); err != nil {
		t.Errorf("expected repurchase after cancellation to succeed, got %v", err)
	}
}

func TestStore_GetByNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	ticket, err := store.Purchase(ctx, tt.ID, testutil.Buyer("alice@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	got, err := store.GetByNumber(ctx, ticket.TicketNumber)
	if err != nil {
		t.Fatalf("GetByNumber failed: %v", err)
	}
	if got.ID != ticket.ID {
		t.Error("expected the purchased ticket back")
	}

	_, err = store.GetByNumber(ctx, "TKT-0-NOSUCH")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("expected NotFound for unknown number, got %v", err)
	}
}

func TestStore_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)

	a, err := store.Purchase(ctx, tt.ID, testutil.Buyer("a@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	b, err := store.Purchase(ctx, tt.ID, testutil.Buyer("b@example.com"))
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer("c@example.com")); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}
	if _, err := store.Use(ctx, a.ID); err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if _, err := store.Cancel(ctx, b.ID, ""); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	stats, err := store.Stats(ctx, event.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSold != 3 {
		t.Errorf("total sold: got %d, want 3", stats.TotalSold)
	}
	if stats.Used != 1 {
		t.Errorf("used: got %d, want 1", stats.Used)
	}
	if stats.Cancelled != 1 {
		t.Errorf("cancelled: got %d, want 1", stats.Cancelled)
	}
	if stats.Active != 2 {
		t.Errorf("active: got %d, want 2", stats.Active)
	}
	if stats.Revenue != 50 {
		t.Errorf("revenue: got %v, want 50 (active tickets only)", stats.Revenue)
	}
}

func TestTypeStore_DeleteWithSales(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)

	if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer("a@example.com")); err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	err := store.Types().Delete(ctx, tt.ID)
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Errorf("expected Conflict deleting a type with sales, got %v", err)
	}
}

func TestTypeStore_LimitCannotUndercutSales(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ticketstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := fixtures.CreateEvent(ctx, "Concert", primitive.NewObjectID())
	tt := fixtures.CreateTicketType(ctx, "Standard", event.ID, 25, 100)
	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := store.Purchase(ctx, tt.ID, testutil.Buyer(email)); err != nil {
			t.Fatalf("Purchase failed: %v", err)
		}
	}

	lower := int64(1)
	_, err := store.Types().Update(ctx, tt.ID, ticketstore.TypePatch{QuantityLimit: &lower})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("expected InvalidArgument lowering limit below sold, got %v", err)
	}
}
