package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// UserClub mirrors a membership onto the user document so club affiliation
// is readable without scanning every club.
type UserClub struct {
	ClubID primitive.ObjectID `json:"club_id" bson:"club_id"`
	Role   string             `json:"role" bson:"role"`
}

type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	Password   string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role       string             `json:"role" bson:"role"`
	StudentID  string             `json:"student_id,omitempty" bson:"student_id,omitempty"`
	Year       int                `json:"year,omitempty" bson:"year,omitempty"`
	Department string             `json:"department,omitempty" bson:"department,omitempty"`
	IsActive   bool               `json:"is_active" bson:"is_active"`
	Clubs      []UserClub         `json:"clubs,omitempty" bson:"clubs,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// InClub reports whether the user carries an affiliation with the club.
func (u *User) InClub(clubID primitive.ObjectID) bool {
	for _, c := range u.Clubs {
		if c.ClubID == clubID {
			return true
		}
	}
	return false
}
