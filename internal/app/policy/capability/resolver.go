// internal/app/policy/capability/resolver.go
package capability

import (
	"context"
	"errors"

	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolver loads a resource's precedence chain from the database and
// decides. All decision logic lives in the pure decide functions; the
// resolver is only the fetch layer.
type Resolver struct {
	db *mongo.Database
}

func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) fetch(ctx context.Context, coll string, id primitive.ObjectID, out any, what string) error {
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.New(apperr.NotFound, "%s not found", what)
		}
		return apperr.Wrap(apperr.Internal, err, "fetch %s", what)
	}
	return nil
}

func (r *Resolver) loadGroup(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	return g, r.fetch(ctx, "groups", id, &g, "group")
}

func (r *Resolver) loadEvent(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	return e, r.fetch(ctx, "events", id, &e, "event")
}

// loadEventChain fetches the event and, when the event links a group,
// that group too. A dangling group link is a NotFound: the chain cannot
// be resolved.
func (r *Resolver) loadEventChain(ctx context.Context, id primitive.ObjectID) (models.Event, *models.Group, error) {
	e, err := r.loadEvent(ctx, id)
	if err != nil {
		return models.Event{}, nil, err
	}
	if e.GroupID == nil {
		return e, nil, nil
	}
	g, err := r.loadGroup(ctx, *e.GroupID)
	if err != nil {
		return models.Event{}, nil, err
	}
	return e, &g, nil
}

func (r *Resolver) loadAlbumChain(ctx context.Context, id primitive.ObjectID) (models.Album, models.Event, *models.Group, error) {
	var a models.Album
	if err := r.fetch(ctx, "albums", id, &a, "album"); err != nil {
		return models.Album{}, models.Event{}, nil, err
	}
	e, g, err := r.loadEventChain(ctx, a.EventID)
	if err != nil {
		return models.Album{}, models.Event{}, nil, err
	}
	return a, e, g, nil
}

// ResolveGroup decides an action against a group.
func (r *Resolver) ResolveGroup(ctx context.Context, actor, groupID primitive.ObjectID, action Action) (Decision, error) {
	g, err := r.loadGroup(ctx, groupID)
	if err != nil {
		return Decision{}, err
	}
	return decideGroup(action, actor, g)
}

// ResolveEvent decides an action against an event.
func (r *Resolver) ResolveEvent(ctx context.Context, actor, eventID primitive.ObjectID, action Action) (Decision, error) {
	e, g, err := r.loadEventChain(ctx, eventID)
	if err != nil {
		return Decision{}, err
	}
	return decideEvent(action, actor, e, g)
}

// ResolveAlbum decides an action against an album, walking up to the
// event and its optional group.
func (r *Resolver) ResolveAlbum(ctx context.Context, actor, albumID primitive.ObjectID, action Action) (Decision, error) {
	a, e, g, err := r.loadAlbumChain(ctx, albumID)
	if err != nil {
		return Decision{}, err
	}
	return decideAlbum(action, actor, a, e, g)
}

// ResolvePhoto decides an action against a photo; the view chain is up
// to three dependent fetches (photo, album, event, group).
func (r *Resolver) ResolvePhoto(ctx context.Context, actor, photoID primitive.ObjectID, action Action) (Decision, error) {
	var p models.Photo
	if err := r.fetch(ctx, "photos", photoID, &p, "photo"); err != nil {
		return Decision{}, err
	}
	a, e, g, err := r.loadAlbumChain(ctx, p.AlbumID)
	if err != nil {
		return Decision{}, err
	}
	return decidePhoto(action, actor, p, a, e, g)
}

// ResolveDiscussion decides access to a discussion through whichever
// parent it is linked to.
func (r *Resolver) ResolveDiscussion(ctx context.Context, actor, discussionID primitive.ObjectID) (Decision, error) {
	var disc models.Discussion
	if err := r.fetch(ctx, "discussions", discussionID, &disc, "discussion"); err != nil {
		return Decision{}, err
	}
	if disc.LinkedToGroup != nil {
		g, err := r.loadGroup(ctx, *disc.LinkedToGroup)
		if err != nil {
			return Decision{}, err
		}
		return decideDiscussion(actor, disc, &g, nil)
	}
	if disc.LinkedToEvent != nil {
		e, err := r.loadEvent(ctx, *disc.LinkedToEvent)
		if err != nil {
			return Decision{}, err
		}
		return decideDiscussion(actor, disc, nil, &e)
	}
	return Decision{}, apperr.New(apperr.NotFound, "discussion parent not found")
}

// ResolvePoll decides an action against a poll through its event.
func (r *Resolver) ResolvePoll(ctx context.Context, actor, pollID primitive.ObjectID, action Action) (Decision, error) {
	var p models.Poll
	if err := r.fetch(ctx, "polls", pollID, &p, "poll"); err != nil {
		return Decision{}, err
	}
	e, err := r.loadEvent(ctx, p.EventID)
	if err != nil {
		return Decision{}, err
	}
	return decidePoll(action, actor, p, e)
}

// ResolveTicketType decides management of a ticket type through its
// event's organizers.
func (r *Resolver) ResolveTicketType(ctx context.Context, actor, typeID primitive.ObjectID) (Decision, error) {
	var tt models.TicketType
	if err := r.fetch(ctx, "ticket_types", typeID, &tt, "ticket type"); err != nil {
		return Decision{}, err
	}
	e, err := r.loadEvent(ctx, tt.EventID)
	if err != nil {
		return Decision{}, err
	}
	return decideTicketType(actor, tt, e)
}
