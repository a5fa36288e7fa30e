package models

import (
	"time"
)

// User represents an account in the system. Guest accounts created by the
// RSVP flow have an empty password hash.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         *string   `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsGuest reports whether the account has never set a password.
func (u *User) IsGuest() bool {
	return u.PasswordHash == ""
}

// DisplayName returns the user's name or an empty string.
func (u *User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// ManagedUser is a user row in the admin listing
type ManagedUser struct {
	ID         string    `json:"id"`
	Name       *string   `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	EventCount int       `json:"eventCount"`
	RSVPCount  int       `json:"rsvpCount"`
}

// UserSummary is the public projection returned after registration and role changes
type UserSummary struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Summary projects a user without credentials.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
