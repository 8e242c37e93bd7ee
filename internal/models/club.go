package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MembershipPending  = "pending"
	MembershipActive   = "active"
	MembershipRejected = "rejected"

	MemberRoleMember        = "member"
	MemberRolePresident     = "president"
	MemberRoleVicePresident = "vice-president"
	MemberRoleSecretary     = "secretary"
)

// Membership is embedded in the club document.
type Membership struct {
	UserID   primitive.ObjectID `json:"user_id" bson:"user_id"`
	Role     string             `json:"role" bson:"role"`
	Status   string             `json:"status" bson:"status"`
	JoinedAt time.Time          `json:"joined_at" bson:"joined_at"`
}

// IsOfficer reports whether the membership carries an officer role.
func (m Membership) IsOfficer() bool {
	switch m.Role {
	case MemberRolePresident, MemberRoleVicePresident, MemberRoleSecretary:
		return true
	}
	return false
}

type Club struct {
	ID                 primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name               string               `json:"name" bson:"name"`
	Description        string               `json:"description" bson:"description"`
	Category           string               `json:"category" bson:"category"`
	Mission            string               `json:"mission" bson:"mission"`
	Vision             string               `json:"vision" bson:"vision"`
	FacultyCoordinator primitive.ObjectID   `json:"faculty_coordinator" bson:"faculty_coordinator"`
	EstablishedDate    time.Time            `json:"established_date" bson:"established_date"`
	IsActive           bool                 `json:"is_active" bson:"is_active"`
	Members            []Membership         `json:"members" bson:"members"`
	Events             []primitive.ObjectID `json:"events,omitempty" bson:"events,omitempty"`
	CreatedAt          time.Time            `json:"created_at" bson:"created_at"`
}

// ActiveMember returns the active membership for the user, if any.
func (c *Club) ActiveMember(userID primitive.ObjectID) (Membership, bool) {
	for _, m := range c.Members {
		if m.UserID == userID && m.Status == MembershipActive {
			return m, true
		}
	}
	return Membership{}, false
}

// MemberCount counts members with the given status; an empty status counts all.
func (c *Club) MemberCount(status string) int {
	if status == "" {
		return len(c.Members)
	}
	n := 0
	for _, m := range c.Members {
		if m.Status == status {
			n++
		}
	}
	return n
}
