package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gatherhub/gatherhub/internal/app/system/indexes"
)

// SetupTestDB connects to the MongoDB instance named by
// GATHERHUB_TEST_MONGO_URI and returns a database unique to this test.
// The database is dropped and the client disconnected when the test
// finishes. Tests calling this are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("GATHERHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GATHERHUB_TEST_MONGO_URI not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("mongo ping failed: %v", err)
	}

	name := fmt.Sprintf("gatherhub_test_%s_%d", sanitizeDBName(t.Name()), time.Now().UnixNano())
	db := client.Database(name)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes failed: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test
// database operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func sanitizeDBName(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", ".", "_", "$", "_")
	s := r.Replace(strings.ToLower(name))
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
