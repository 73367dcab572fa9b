package user

import (
	"time"
)

// User represents a registered identity. UserID is the public 6-character
// code other users address; ID is the internal key everything joins on.
type User struct {
	ID              uint64
	UserID          string `gorm:"uniqueIndex;size:6"`
	Name            string
	Email           string `gorm:"uniqueIndex"`
	Password        string `gorm:"-"` // input only, not stored in db
	PasswordHash    string
	ProfilePhotoURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID              uint64    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfilePhotoURL *string   `json:"profile_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:              u.ID,
		UserID:          u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		ProfilePhotoURL: u.ProfilePhotoURL,
		CreatedAt:       u.CreatedAt,
	}
}
