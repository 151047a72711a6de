// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Index creation is idempotent; errors are
aggregated so every problem is visible and startup can fail fast.

The unique indexes here are load-bearing, not advisory:

  - poll_votes (poll_id, question_id, user_id) makes single-choice
    voting a storage invariant; revoting replaces the document.
  - tickets (event_id, buyer_info.email), partial on status "active",
    closes the one-ticket-per-buyer-per-event race at purchase time.
  - discussions linked_to_group / linked_to_event (sparse) enforce one
    discussion per parent.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, c := range []struct {
		name   string
		models []mongo.IndexModel
	}{
		{"users", userIndexes()},
		{"groups", groupIndexes()},
		{"events", eventIndexes()},
		{"albums", albumIndexes()},
		{"photos", photoIndexes()},
		{"discussions", discussionIndexes()},
		{"polls", pollIndexes()},
		{"poll_votes", pollVoteIndexes()},
		{"ticket_types", ticketTypeIndexes()},
		{"tickets", ticketIndexes()},
		{"oauth_states", oauthStateIndexes()},
	} {
		if err := ensure(ctx, db.Collection(c.name), c.models); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", c.name, err))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensure(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func unique(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name).SetUnique(true),
	}
}

func plain(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique("email_ci_unique", bson.D{{Key: "email_ci", Value: 1}}),
	}
}

func groupIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("type_created", bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}),
		plain("administrators", bson.D{{Key: "administrators", Value: 1}}),
		plain("members", bson.D{{Key: "members", Value: 1}}),
	}
}

func eventIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("public_start", bson.D{{Key: "is_public", Value: 1}, {Key: "start_date", Value: 1}}),
		plain("group_id", bson.D{{Key: "group_id", Value: 1}}),
	}
}

func albumIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("event_created", bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: -1}}),
	}
}

func photoIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("album_created", bson.D{{Key: "album_id", Value: 1}, {Key: "created_at", Value: -1}}),
	}
}

func discussionIndexes() []mongo.IndexModel {
	sparseUnique := func(name, key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetName(name).SetUnique(true).SetSparse(true),
		}
	}
	return []mongo.IndexModel{
		sparseUnique("group_link_unique", "linked_to_group"),
		sparseUnique("event_link_unique", "linked_to_event"),
	}
}

func pollIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("event_created", bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: -1}}),
	}
}

func pollVoteIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		unique("poll_question_user_unique", bson.D{
			{Key: "poll_id", Value: 1},
			{Key: "question_id", Value: 1},
			{Key: "user_id", Value: 1},
		}),
		plain("poll_question_option", bson.D{
			{Key: "poll_id", Value: 1},
			{Key: "question_id", Value: 1},
			{Key: "option_id", Value: 1},
		}),
	}
}

func ticketTypeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		plain("event_price", bson.D{{Key: "event_id", Value: 1}, {Key: "price", Value: 1}}),
	}
}

func ticketIndexes() []mongo.IndexModel {
	activeBuyer := mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "buyer_info.email", Value: 1}},
		Options: options.Index().
			SetName("active_buyer_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "status", Value: "active"}}),
	}
	return []mongo.IndexModel{
		unique("ticket_number_unique", bson.D{{Key: "ticket_number", Value: 1}}),
		activeBuyer,
		plain("event_purchase", bson.D{{Key: "event_id", Value: 1}, {Key: "purchase_date", Value: -1}}),
	}
}

func oauthStateIndexes() []mongo.IndexModel {
	expires := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("expires_ttl").SetExpireAfterSeconds(0),
	}
	return []mongo.IndexModel{
		unique("state_unique", bson.D{{Key: "state", Value: 1}}),
		expires,
	}
}
