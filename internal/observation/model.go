package observation

import (
	"time"

	"observation-tracker/internal/user"
)

const (
	StatusUnrevised = "unrevised"
	StatusRevised   = "revised"
)

// Observation is a shared field record. ObservationID is the public 6-digit
// code; the row itself is immutable after creation except for Status and
// RevisionSeq, which only revision creation touches.
type Observation struct {
	ID            uint64
	ObservationID string `gorm:"uniqueIndex;size:6"`
	SenderID      uint64
	Sender        user.User
	Location      string
	Body          string `gorm:"column:observation"`
	PhotoURL      *string
	Status        string `gorm:"default:unrevised"`
	RevisionSeq   uint64 `gorm:"default:0"`
	CreatedAt     time.Time
	Recipients    []Recipient
	Revisions     []Revision
}

// Recipient links an observation to a user who may read it. Rows are written
// once at creation time and never change.
type Recipient struct {
	ID            uint64
	ObservationID uint64 `gorm:"uniqueIndex:idx_observation_recipient"`
	RecipientID   uint64 `gorm:"uniqueIndex:idx_observation_recipient"`
	Recipient     user.User
	CreatedAt     time.Time
}

// Revision is an append-only amendment. Seq is the count of prior revisions
// plus one, assigned inside the revise transaction.
type Revision struct {
	ID              uint64
	ObservationID   uint64
	ReviserID       uint64
	Reviser         user.User
	Seq             uint64
	RevisedLocation string
	RevisedBody     string `gorm:"column:revised_observation"`
	RevisedPhotoURL *string
	CreatedAt       time.Time
}

// CanRead reports whether u is the sender or one of the recipients.
// Recipients must be loaded on the receiver.
func (o *Observation) CanRead(u *user.User) bool {
	if o.SenderID == u.ID {
		return true
	}
	for _, r := range o.Recipients {
		if r.RecipientID == u.ID {
			return true
		}
	}
	return false
}
