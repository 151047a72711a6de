// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group visibility types.
const (
	GroupPublic  = "public"
	GroupPrivate = "private"
	GroupSecret  = "secret"
)

// ValidGroupType reports whether t is one of the allowed group types.
func ValidGroupType(t string) bool {
	return t == GroupPublic || t == GroupPrivate || t == GroupSecret
}

// Group is a community of users.
//
// NOTE:
//   - Administrators is never empty; the first element is the creator,
//     who alone may delete the group.
//   - Administrators and Members are conceptually disjoint but storage
//     does not enforce it.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	CoverPhoto  string             `bson:"cover_photo,omitempty" json:"coverPhoto,omitempty"`

	Type string `bson:"type" json:"type"` // public | private | secret

	AllowMemberPosts  bool `bson:"allow_member_posts" json:"allowMemberPosts"`
	AllowMemberEvents bool `bson:"allow_member_events" json:"allowMemberEvents"`

	Administrators []primitive.ObjectID `bson:"administrators" json:"administrators"`
	Members        []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Creator returns the group's creator (first administrator).
func (g *Group) Creator() primitive.ObjectID {
	if len(g.Administrators) == 0 {
		return primitive.NilObjectID
	}
	return g.Administrators[0]
}

// IsAdministrator reports whether userID is a group administrator.
func (g *Group) IsAdministrator(userID primitive.ObjectID) bool {
	return containsID(g.Administrators, userID)
}

// IsMember reports whether userID is a plain member of the group.
func (g *Group) IsMember(userID primitive.ObjectID) bool {
	return containsID(g.Members, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
