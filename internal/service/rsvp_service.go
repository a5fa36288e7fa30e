package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/validation"
	"github.com/rs/zerolog"
)

// RSVPResult is the outcome of an admitted RSVP
type RSVPResult struct {
	Confirmation models.RSVPConfirmation
	Identity     models.IdentityResolution
}

// rsvpService is the concrete implementation of RSVPService
type rsvpService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

// newRSVPService creates a new RSVPService
func newRSVPService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *rsvpService {
	return &rsvpService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "rsvp").Logger(),
	}
}

// Submit admits an RSVP for the event. The checks run in a fixed order and
// the first failure is returned: validation, event lookup, past event,
// identity resolution, duplicate check, conditional insert.
func (s *rsvpService) Submit(ctx context.Context, eventID string, req models.RSVPRequest, session *auth.Session) (*RSVPResult, error) {
	if err := validationError(validation.ValidateRSVP(req.Name, req.Email)); err != nil {
		return nil, err
	}

	event, err := s.repos.Event.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.IsPast(s.now()) {
		return nil, ErrEventInPast
	}

	identity, err := s.ResolveIdentity(ctx, req.Name, req.Email, session)
	if err != nil {
		return nil, err
	}
	conflict := ErrEmailAlreadyUsed
	if identity.Authenticated {
		conflict = ErrAlreadyRSVPd
	}

	existing, err := s.repos.RSVP.FindByEventAndUser(ctx, event.ID, identity.User.ID)
	if err != nil {
		return nil, fmt.Errorf("find rsvp: %w", err)
	}
	if existing != nil {
		return nil, conflict
	}

	rsvp := &models.RSVP{EventID: event.ID, UserID: identity.User.ID}
	outcome, err := s.repos.RSVP.InsertIfAbsent(ctx, rsvp)
	if err != nil {
		return nil, err
	}
	if outcome == models.AlreadyExists {
		return nil, conflict
	}

	s.log.Info().
		Str("event_id", event.ID).
		Str("rsvp_id", rsvp.ID).
		Str("identity", string(identity.Kind)).
		Bool("authenticated", identity.Authenticated).
		Msg("RSVP recorded")

	attendeeName := identity.User.DisplayName()
	if attendeeName == "" {
		attendeeName = strings.TrimSpace(req.Name)
	}

	return &RSVPResult{
		Confirmation: models.RSVPConfirmation{
			ID:            rsvp.ID,
			EventTitle:    event.Title,
			AttendeeName:  attendeeName,
			AttendeeEmail: identity.User.Email,
			CreatedAt:     rsvp.CreatedAt,
		},
		Identity: *identity,
	}, nil
}

// ResolveIdentity picks the user an RSVP is recorded against. A session
// whose email maps to a user always wins over the submitted email. Without
// one, the submitted email is looked up and a guest account is created when
// no user has it yet.
func (s *rsvpService) ResolveIdentity(ctx context.Context, name, email string, session *auth.Session) (*models.IdentityResolution, error) {
	if session != nil && session.Email != "" {
		user, err := s.repos.User.GetByEmail(ctx, validation.NormalizeEmail(session.Email))
		if err != nil {
			return nil, fmt.Errorf("find session user: %w", err)
		}
		if user != nil {
			return &models.IdentityResolution{Kind: models.IdentityExisting, User: user, Authenticated: true}, nil
		}
		s.log.Warn().Str("email", session.Email).Msg("Session user not found, treating RSVP as anonymous")
	}

	normalized := validation.NormalizeEmail(email)
	user, err := s.repos.User.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user != nil {
		return &models.IdentityResolution{Kind: models.IdentityExisting, User: user}, nil
	}

	guest := &models.User{
		Email: normalized,
		Name:  models.StringPtr(strings.TrimSpace(name)),
		Role:  models.RoleAttendee,
	}
	err = s.repos.User.Create(ctx, guest)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost a race with a concurrent submission for the same email
		user, err = s.repos.User.GetByEmail(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("guest %s vanished after duplicate insert", normalized)
		}
		return &models.IdentityResolution{Kind: models.IdentityExisting, User: user}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}

	s.log.Info().Str("user_id", guest.ID).Msg("Guest account created for RSVP")
	return &models.IdentityResolution{Kind: models.IdentityCreated, User: guest}, nil
}
