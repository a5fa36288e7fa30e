package models

import (
	"time"
)

// RSVP records a user's attendance for an event. At most one exists per
// (event, user) pair.
type RSVP struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"eventId" db:"event_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Attendee is an RSVP joined with the attending user's contact details
type Attendee struct {
	RSVPID    string    `json:"rsvpId"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertOutcome is the result of a conditional RSVP insert
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	AlreadyExists
)

func (o InsertOutcome) String() string {
	if o == Inserted {
		return "inserted"
	}
	return "already_exists"
}

// IdentityKind tells whether the RSVP subject was found or created
type IdentityKind string

const (
	IdentityExisting IdentityKind = "existing"
	IdentityCreated  IdentityKind = "created"
)

// IdentityResolution is the user an RSVP is recorded against
type IdentityResolution struct {
	Kind          IdentityKind
	User          *User
	Authenticated bool
}

// RSVPRequest is the body of the RSVP submission endpoints
type RSVPRequest struct {
	EventID string `json:"eventId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// RSVPConfirmation is shown to the attendee after a successful RSVP
type RSVPConfirmation struct {
	ID            string    `json:"id"`
	EventTitle    string    `json:"eventTitle"`
	AttendeeName  string    `json:"attendeeName"`
	AttendeeEmail string    `json:"attendeeEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}
