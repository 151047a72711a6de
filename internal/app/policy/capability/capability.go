// internal/app/policy/capability/capability.go

// Package capability resolves whether an authenticated user may perform
// an action on a resource. Each resource kind has a fixed precedence
// chain of rules, checked most specific first; the first satisfied rule
// allows, and a chain that resolves without a match denies. Parents
// referenced by a chain (photo → album → event → group) are fetched
// transitively and returned on the decision so handlers do not fetch
// them again.
package capability

import (
	"github.com/gatherhub/gatherhub/internal/domain/models"
)

// Action names what the caller wants to do with the resource.
type Action string

const (
	// ActionView covers reads and self-serve participation: group
	// member reads, event participant reads, album/photo viewing and
	// commenting, discussion access.
	ActionView Action = "view"

	// ActionManage covers update-level mutation: group settings by an
	// administrator, event edits by an organizer, album edits by the
	// creator or an organizer, photo edits by the uploader, poll edits
	// by the creator, ticket type management by an organizer.
	ActionManage Action = "manage"

	// ActionDeleteOwner is the creator-only tier: deleting a group or
	// an event is reserved to the first administrator or organizer.
	ActionDeleteOwner Action = "delete-owner"

	// ActionElevated is the creator-or-organizer tier used for poll
	// results and poll deletion.
	ActionElevated Action = "elevated"

	// ActionVote is the participant-only tier for casting poll votes.
	// Organizing the event is not enough; the voter must be on the
	// participant list.
	ActionVote Action = "vote"
)

// Roles a decision can match on. Redacted group reads carry no role.
const (
	RoleCreator       = "creator"
	RoleAdministrator = "administrator"
	RoleMember        = "member"
	RoleOrganizer     = "organizer"
	RoleParticipant   = "participant"
	RoleUploader      = "uploader"
	RoleGroupAdmin    = "group-administrator"
)

// Decision is the result of an allow. Role names the first precedence
// rule that matched. Redacted marks a private-group read granted to a
// non-member, which must be served as a summary. Entities fetched while
// walking the chain are attached; pointers are nil for links the chain
// never touched.
type Decision struct {
	Role     string
	Redacted bool

	Group      *models.Group
	Event      *models.Event
	Album      *models.Album
	Photo      *models.Photo
	Discussion *models.Discussion
	Poll       *models.Poll
	TicketType *models.TicketType
}
