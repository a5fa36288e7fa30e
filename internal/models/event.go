package models

import (
	"time"
)

// Event represents a scheduled event owned by a user
type Event struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Location    *string   `json:"location" db:"location"`
	Date        time.Time `json:"date" db:"date"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Populated by listing queries
	Owner     *Owner `json:"owner,omitempty" db:"-"`
	RSVPCount int    `json:"rsvpCount" db:"-"`
}

// Owner is the public projection of an event's owner
type Owner struct {
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

// IsPast reports whether the event has started at the given instant.
func (e *Event) IsPast(now time.Time) bool {
	return !e.Date.After(now)
}

// CreateEventRequest is the body of POST /api/events
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Date        string  `json:"date"`
}

// DeletedEvent is returned after an event and its RSVPs are removed
type DeletedEvent struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	RSVPsDeleted int    `json:"rsvpsDeleted"`
}
