// internal/app/policy/capability/decide.go
package capability

import (
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The decide functions are pure: they take the already-fetched chain
// and return an allow decision or a typed deny. The resolver loads the
// chain; tests exercise these directly.

func errForbidden() error {
	return apperr.New(apperr.Forbidden, "you do not have permission to perform this action")
}

// decideGroup applies the group chain. A secret group is reported as
// NotFound to non-members so its existence is never confirmed; a
// private group still answers member-only reads for non-members, but
// redacted.
func decideGroup(action Action, actor primitive.ObjectID, g models.Group) (Decision, error) {
	d := Decision{Group: &g}

	switch action {
	case ActionDeleteOwner:
		if g.Creator() == actor {
			d.Role = RoleCreator
			return d, nil
		}
		if g.Type == models.GroupSecret && !g.IsAdministrator(actor) && !g.IsMember(actor) {
			return Decision{}, apperr.New(apperr.NotFound, "group not found")
		}
		return Decision{}, errForbidden()

	case ActionManage:
		if g.IsAdministrator(actor) {
			d.Role = RoleAdministrator
			return d, nil
		}
		if g.Type == models.GroupSecret && !g.IsMember(actor) {
			return Decision{}, apperr.New(apperr.NotFound, "group not found")
		}
		return Decision{}, errForbidden()

	case ActionView:
		if g.IsAdministrator(actor) {
			d.Role = RoleAdministrator
			return d, nil
		}
		if g.IsMember(actor) {
			d.Role = RoleMember
			return d, nil
		}
		switch g.Type {
		case models.GroupPublic:
			return d, nil
		case models.GroupPrivate:
			d.Redacted = true
			return d, nil
		default:
			return Decision{}, apperr.New(apperr.NotFound, "group not found")
		}
	}
	return Decision{}, errForbidden()
}

// decideEvent applies the event chain. group is the event's linked
// group when one exists, used only so a decision carries it onward.
func decideEvent(action Action, actor primitive.ObjectID, e models.Event, group *models.Group) (Decision, error) {
	d := Decision{Event: &e, Group: group}

	switch action {
	case ActionDeleteOwner:
		if e.Creator() == actor {
			d.Role = RoleCreator
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionManage:
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionView:
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		if e.IsParticipant(actor) {
			d.Role = RoleParticipant
			return d, nil
		}
		if e.IsPublic {
			return d, nil
		}
		return Decision{}, errForbidden()
	}
	return Decision{}, errForbidden()
}

// decideAlbum applies the album chain. event is the album's event;
// group is the event's linked group, nil when the event has none, in
// which case the group-admin branch is skipped.
func decideAlbum(action Action, actor primitive.ObjectID, a models.Album, e models.Event, group *models.Group) (Decision, error) {
	d := Decision{Album: &a, Event: &e, Group: group}

	switch action {
	case ActionManage:
		if a.IsCreator(actor) {
			d.Role = RoleCreator
			return d, nil
		}
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionView:
		if a.IsCreator(actor) {
			d.Role = RoleCreator
			return d, nil
		}
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		if e.IsParticipant(actor) {
			d.Role = RoleParticipant
			return d, nil
		}
		if group != nil && group.IsAdministrator(actor) {
			d.Role = RoleGroupAdmin
			return d, nil
		}
		return Decision{}, errForbidden()
	}
	return Decision{}, errForbidden()
}

// decidePhoto applies the photo chain: manage is uploader-only, view
// falls through to the parent album's view chain.
func decidePhoto(action Action, actor primitive.ObjectID, p models.Photo, a models.Album, e models.Event, group *models.Group) (Decision, error) {
	switch action {
	case ActionManage:
		if p.UploadedBy == actor {
			return Decision{Photo: &p, Album: &a, Event: &e, Group: group, Role: RoleUploader}, nil
		}
		return Decision{}, errForbidden()

	case ActionView:
		if p.UploadedBy == actor {
			return Decision{Photo: &p, Album: &a, Event: &e, Group: group, Role: RoleUploader}, nil
		}
		d, err := decideAlbum(ActionView, actor, a, e, group)
		if err != nil {
			return Decision{}, err
		}
		d.Photo = &p
		return d, nil
	}
	return Decision{}, errForbidden()
}

// decideDiscussion applies the discussion chain against whichever
// parent the discussion is linked to.
func decideDiscussion(actor primitive.ObjectID, disc models.Discussion, group *models.Group, event *models.Event) (Decision, error) {
	if group != nil {
		d := Decision{Discussion: &disc, Group: group}
		if group.IsAdministrator(actor) {
			d.Role = RoleAdministrator
			return d, nil
		}
		if group.IsMember(actor) {
			d.Role = RoleMember
			return d, nil
		}
		if group.Type == models.GroupSecret {
			return Decision{}, apperr.New(apperr.NotFound, "discussion not found")
		}
		return Decision{}, errForbidden()
	}
	if event != nil {
		d := Decision{Discussion: &disc, Event: event}
		if event.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		if event.IsParticipant(actor) {
			d.Role = RoleParticipant
			return d, nil
		}
		return Decision{}, errForbidden()
	}
	return Decision{}, apperr.New(apperr.NotFound, "discussion parent not found")
}

// decidePoll applies the poll chain: manage is creator-only, results
// and deletion extend to the event's organizers, viewing needs any
// event role, and voting is participant-only. An organizer who has not
// joined the participant list may read the poll but not vote in it.
func decidePoll(action Action, actor primitive.ObjectID, p models.Poll, e models.Event) (Decision, error) {
	d := Decision{Poll: &p, Event: &e}

	switch action {
	case ActionVote:
		if e.IsParticipant(actor) {
			d.Role = RoleParticipant
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionManage:
		if p.CreatedBy == actor {
			d.Role = RoleCreator
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionElevated:
		if p.CreatedBy == actor {
			d.Role = RoleCreator
			return d, nil
		}
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		return Decision{}, errForbidden()

	case ActionView:
		if e.IsParticipant(actor) {
			d.Role = RoleParticipant
			return d, nil
		}
		if e.IsOrganizer(actor) {
			d.Role = RoleOrganizer
			return d, nil
		}
		return Decision{}, errForbidden()
	}
	return Decision{}, errForbidden()
}

// decideTicketType applies the ticket type chain: management belongs to
// the event's organizers.
func decideTicketType(actor primitive.ObjectID, tt models.TicketType, e models.Event) (Decision, error) {
	if e.IsOrganizer(actor) {
		return Decision{TicketType: &tt, Event: &e, Role: RoleOrganizer}, nil
	}
	return Decision{}, errForbidden()
}
