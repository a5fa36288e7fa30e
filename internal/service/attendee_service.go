package service

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	csvBOM         = "\ufeff"
	csvHeader      = "Name,Email,RSVP Date,RSVP Time"
	missingName    = "No name provided"
	exportDateFmt  = "2006-01-02"
	exportTimeFmt  = "15:04:05"
	filenameSuffix = "_attendees.csv"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// AttendeeList is an event with its attendees in RSVP order
type AttendeeList struct {
	Event     *models.Event      `json:"event"`
	Attendees []*models.Attendee `json:"attendees"`
	Total     int                `json:"total"`
}

// attendeeService is the concrete implementation of AttendeeService
type attendeeService struct {
	repos *repository.Repositories
	loc   *time.Location
	log   zerolog.Logger
}

// newAttendeeService creates a new AttendeeService
func newAttendeeService(repos *repository.Repositories, loc *time.Location, log zerolog.Logger) *attendeeService {
	if loc == nil {
		loc = time.UTC
	}
	return &attendeeService{
		repos: repos,
		loc:   loc,
		log:   log.With().Str("service", "attendee").Logger(),
	}
}

// Authorize applies the event management rule: the owner, staff or admins
func (s *attendeeService) Authorize(ctx context.Context, session *auth.Session, eventID string) (*models.Event, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}

	event, err := s.repos.Event.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if !models.CanManageEvent(user, event) {
		return nil, ErrForbidden
	}
	return event, nil
}

// List returns an event's attendees
func (s *attendeeService) List(ctx context.Context, session *auth.Session, eventID string) (*AttendeeList, error) {
	event, err := s.Authorize(ctx, session, eventID)
	if err != nil {
		return nil, err
	}

	attendees, err := s.repos.RSVP.ListAttendees(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return &AttendeeList{Event: event, Attendees: attendees, Total: len(attendees)}, nil
}

// Export writes the attendee document for an authorized event
func (s *attendeeService) Export(ctx context.Context, event *models.Event, w io.Writer) error {
	bw := bufio.NewWriter(w)
	count := 0

	bw.WriteString(csvBOM)
	bw.WriteString(csvHeader)

	err := s.repos.RSVP.StreamAttendees(ctx, event.ID, func(a *models.Attendee) error {
		bw.WriteByte('\n')
		writeAttendeeRow(bw, a, s.loc)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("event_id", event.ID).Int("count", count).Msg("Attendee export completed")
	return bw.Flush()
}

func writeAttendeeRow(w *bufio.Writer, a *models.Attendee, loc *time.Location) {
	name := missingName
	if a.Name != nil && *a.Name != "" {
		name = *a.Name
	}
	at := a.CreatedAt.In(loc)

	fields := []string{name, a.Email, at.Format(exportDateFmt), at.Format(exportTimeFmt)}
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
}

// ExportFilename derives the download name from an event title
func ExportFilename(title string) string {
	return unsafeFilenameChars.ReplaceAllString(title, "_") + filenameSuffix
}
