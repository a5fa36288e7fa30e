package service

import (
	"context"
	"io"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/validation"
	"github.com/rs/zerolog"
)

// RSVPService defines the RSVP admission workflow
type RSVPService interface {
	Submit(ctx context.Context, eventID string, req models.RSVPRequest, session *auth.Session) (*RSVPResult, error)
	ResolveIdentity(ctx context.Context, name, email string, session *auth.Session) (*models.IdentityResolution, error)
}

// EventService defines event listing and management
type EventService interface {
	List(ctx context.Context) ([]*models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, session *auth.Session, req models.CreateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, session *auth.Session, id string) (*models.DeletedEvent, error)
	ListManaged(ctx context.Context, session *auth.Session) ([]*models.Event, error)
	ListAll(ctx context.Context, session *auth.Session) ([]*models.Event, error)
}

// AttendeeService defines attendee viewing and export
type AttendeeService interface {
	List(ctx context.Context, session *auth.Session, eventID string) (*AttendeeList, error)
	// Authorize returns the event when the session may see its attendees
	Authorize(ctx context.Context, session *auth.Session, eventID string) (*models.Event, error)
	Export(ctx context.Context, event *models.Event, w io.Writer) error
}

// UserService defines accounts, sessions and role management
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, session *auth.Session) (*models.User, error)
	List(ctx context.Context, session *auth.Session) ([]*models.ManagedUser, error)
	ChangeRole(ctx context.Context, session *auth.Session, userID, role string) (*models.User, error)
	PromoteByEmail(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// StatsService defines the cached dashboard statistics
type StatsService interface {
	Get(ctx context.Context, session *auth.Session) (*models.DashboardStats, error)
	Reset(ctx context.Context) error
}

// Services holds all service interfaces
type Services struct {
	RSVP     RSVPService
	Event    EventService
	Attendee AttendeeService
	User     UserService
	Stats    StatsService
	Tokens   *auth.TokenManager
}

// Option customizes NewServices
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the wall clock used for past-event and stats checks
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store cache.Store, cfg *config.Config, log zerolog.Logger, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	return &Services{
		RSVP:     newRSVPService(repos, o.now, log),
		Event:    newEventService(repos, o.now, log),
		Attendee: newAttendeeService(repos, cfg.Export.Location(), log),
		User:     newUserService(repos, hasher, tokens, log),
		Stats:    newStatsService(repos, store, cfg.Cache.StatsTTL, o.now, log),
		Tokens:   tokens,
	}
}

// sessionUser loads the account behind a session
func sessionUser(ctx context.Context, users repository.UserRepository, session *auth.Session) (*models.User, error) {
	if session == nil || session.Email == "" {
		return nil, ErrUnauthenticated
	}
	user, err := users.GetByEmail(ctx, validation.NormalizeEmail(session.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
