package contact

import (
	"time"
)

// Contact is a personal notebook entry: a display name the owner chose for
// another user's public ID. Unique per (owner, contact user ID).
type Contact struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"-" gorm:"uniqueIndex:idx_owner_contact"`
	Name          string    `json:"name"`
	ContactUserID string    `json:"contact_user_id" gorm:"uniqueIndex:idx_owner_contact;size:6"`
	CreatedAt     time.Time `json:"created_at"`
}
