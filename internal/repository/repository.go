package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eventease-api/internal/database"
	"github.com/eventease-api/internal/models"
	"github.com/google/uuid"
)

// ErrDuplicateEmail is returned when a user with the same email already exists
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	ClaimGuest(ctx context.Context, id, name, passwordHash string) (*models.User, error)
	List(ctx context.Context) ([]*models.ManagedUser, error)
	Count(ctx context.Context) (int, error)
}

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Event, error)
	ListAll(ctx context.Context) ([]*models.Event, error)
	DeleteWithRSVPs(ctx context.Context, id string) (int, error)
	Count(ctx context.Context) (int, error)
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
}

// RSVPRepository defines the interface for RSVP data operations
type RSVPRepository interface {
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.RSVP, error)
	InsertIfAbsent(ctx context.Context, rsvp *models.RSVP) (models.InsertOutcome, error)
	DeleteByEvent(ctx context.Context, eventID string) (int, error)
	ListAttendees(ctx context.Context, eventID string) ([]*models.Attendee, error)
	StreamAttendees(ctx context.Context, eventID string, callback func(*models.Attendee) error) error
	Count(ctx context.Context) (int, error)
}

// isUUID reports whether id can be compared with a UUID column. Other
// strings would make Postgres fail the cast instead of matching nothing.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Repositories holds all repository interfaces
type Repositories struct {
	User  UserRepository
	Event EventRepository
	RSVP  RSVPRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:  NewUserRepo(db),
		Event: NewEventRepo(db),
		RSVP:  NewRSVPRepo(db),
	}
}
