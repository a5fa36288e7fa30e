package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/validation"
	"github.com/rs/zerolog"
)

// eventService is the concrete implementation of EventService
type eventService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

// newEventService creates a new EventService
func newEventService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *eventService {
	return &eventService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "event").Logger(),
	}
}

// List returns all events, soonest first
func (s *eventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.repos.Event.List(ctx)
}

// Get returns a single event
func (s *eventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repos.Event.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// Create validates and stores a new event owned by the session user
func (s *eventService) Create(ctx context.Context, session *auth.Session, req models.CreateEventRequest) (*models.Event, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}

	date, fields := validation.ValidateEvent(req.Title, req.Description, req.Location, req.Date, s.now())
	if err := validationError(fields); err != nil {
		return nil, err
	}

	if !user.Role.AtLeast(models.RoleEventOwner) {
		return nil, ErrAttendeeCannotCreate
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: trimmedPtr(req.Description),
		Location:    trimmedPtr(req.Location),
		Date:        date.UTC(),
		OwnerID:     user.ID,
	}
	if err := s.repos.Event.Create(ctx, event); err != nil {
		return nil, err
	}
	event.Owner = &models.Owner{Name: user.Name, Email: user.Email}

	s.log.Info().Str("event_id", event.ID).Str("owner_id", user.ID).Msg("Event created")
	return event, nil
}

// Delete removes an event and its RSVPs. The event must exist before
// permission is checked.
func (s *eventService) Delete(ctx context.Context, session *auth.Session, id string) (*models.DeletedEvent, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.CanManageEvent(user, event) {
		return nil, ErrForbidden
	}

	removed, err := s.repos.Event.DeleteWithRSVPs(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}

	s.log.Info().
		Str("event_id", event.ID).
		Str("deleted_by", user.ID).
		Int("rsvps_deleted", removed).
		Msg("Event deleted")

	return &models.DeletedEvent{ID: event.ID, Title: event.Title, RSVPsDeleted: removed}, nil
}

// ListManaged returns every event for staff and above, and the caller's own
// events otherwise
func (s *eventService) ListManaged(ctx context.Context, session *auth.Session) ([]*models.Event, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}
	if user.Role.AtLeast(models.RoleStaff) {
		return s.repos.Event.ListAll(ctx)
	}
	return s.repos.Event.ListByOwner(ctx, user.ID)
}

// ListAll returns every event for the admin dashboard
func (s *eventService) ListAll(ctx context.Context, session *auth.Session) ([]*models.Event, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}
	if !user.Role.AtLeast(models.RoleStaff) {
		return nil, ErrForbidden
	}
	return s.repos.Event.ListAll(ctx)
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*s))
}
