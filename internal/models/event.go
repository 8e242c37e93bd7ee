package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventDraft     = "draft"
	EventPending   = "pending"
	EventApproved  = "approved"
	EventRejected  = "rejected"
	EventCancelled = "cancelled"
)

// Registration is one entry in an event's participant list.
type Registration struct {
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	RegisteredAt time.Time          `json:"registered_at" bson:"registered_at"`
}

// RegistrationList decodes leniently: documents written by older clients
// sometimes miss the field entirely or hold a non-array value, and every
// reader used to guard against that individually. Normalizing here keeps
// the defensive check in one place.
type RegistrationList []Registration

var _ bson.ValueUnmarshaler = (*RegistrationList)(nil)

func (l *RegistrationList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.Array {
		*l = RegistrationList{}
		return nil
	}
	var items []Registration
	raw := bson.RawValue{Type: t, Value: data}
	if err := raw.Unmarshal(&items); err != nil {
		*l = RegistrationList{}
		return nil
	}
	*l = items
	return nil
}

type Budget struct {
	Requested float64 `json:"requested" bson:"requested"`
	Approved  float64 `json:"approved" bson:"approved"`
}

type Event struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title                  string             `json:"title" bson:"title"`
	Description            string             `json:"description" bson:"description"`
	ClubID                 primitive.ObjectID `json:"club_id" bson:"club_id"`
	Organizer              primitive.ObjectID `json:"organizer" bson:"organizer"`
	EventType              string             `json:"event_type" bson:"event_type"`
	Venue                  string             `json:"venue" bson:"venue"`
	Date                   time.Time          `json:"date" bson:"date"`
	StartTime              string             `json:"start_time" bson:"start_time"`
	EndTime                string             `json:"end_time" bson:"end_time"`
	MaxParticipants        int                `json:"max_participants" bson:"max_participants"`
	Budget                 Budget             `json:"budget" bson:"budget"`
	Status                 string             `json:"status" bson:"status"`
	ApprovedBy             primitive.ObjectID `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovalNotes          string             `json:"approval_notes,omitempty" bson:"approval_notes,omitempty"`
	RegisteredParticipants RegistrationList   `json:"registered_participants" bson:"registered_participants"`
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
}

// IsRegistered reports whether the user already registered.
func (e *Event) IsRegistered(userID primitive.ObjectID) bool {
	for _, r := range e.RegisteredParticipants {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the event reached capacity. Zero means unlimited.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.RegisteredParticipants) >= e.MaxParticipants
}
