package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
)

// MockRSVPService is a mock implementation of RSVPService
type MockRSVPService struct {
	SubmitFunc  func(ctx context.Context, eventID string, req models.RSVPRequest, session *auth.Session) (*service.RSVPResult, error)
	ResolveFunc func(ctx context.Context, name, email string, session *auth.Session) (*models.IdentityResolution, error)

	mu       sync.Mutex
	Requests []models.RSVPRequest
}

// Verify interface compliance
var _ service.RSVPService = (*MockRSVPService)(nil)

func (m *MockRSVPService) Submit(ctx context.Context, eventID string, req models.RSVPRequest, session *auth.Session) (*service.RSVPResult, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, eventID, req, session)
	}
	return &service.RSVPResult{
		Confirmation: models.RSVPConfirmation{
			ID:            "rsvp-1",
			AttendeeName:  req.Name,
			AttendeeEmail: req.Email,
		},
	}, nil
}

func (m *MockRSVPService) ResolveIdentity(ctx context.Context, name, email string, session *auth.Session) (*models.IdentityResolution, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, name, email, session)
	}
	return &models.IdentityResolution{Kind: models.IdentityExisting, User: &models.User{Email: email}}, nil
}

// MockAttendeeService is a mock implementation of AttendeeService
type MockAttendeeService struct {
	ListFunc      func(ctx context.Context, session *auth.Session, eventID string) (*service.AttendeeList, error)
	AuthorizeFunc func(ctx context.Context, session *auth.Session, eventID string) (*models.Event, error)
	ExportFunc    func(ctx context.Context, event *models.Event, w io.Writer) error
}

// Verify interface compliance
var _ service.AttendeeService = (*MockAttendeeService)(nil)

func (m *MockAttendeeService) List(ctx context.Context, session *auth.Session, eventID string) (*service.AttendeeList, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, session, eventID)
	}
	return &service.AttendeeList{Attendees: []*models.Attendee{}}, nil
}

func (m *MockAttendeeService) Authorize(ctx context.Context, session *auth.Session, eventID string) (*models.Event, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, session, eventID)
	}
	return &models.Event{ID: eventID, Title: "Event"}, nil
}

func (m *MockAttendeeService) Export(ctx context.Context, event *models.Event, w io.Writer) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, event, w)
	}
	return nil
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	GetFunc    func(ctx context.Context, session *auth.Session) (*models.DashboardStats, error)
	ResetCalls int
}

// Verify interface compliance
var _ service.StatsService = (*MockStatsService)(nil)

func (m *MockStatsService) Get(ctx context.Context, session *auth.Session) (*models.DashboardStats, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, session)
	}
	return &models.DashboardStats{}, nil
}

func (m *MockStatsService) Reset(ctx context.Context) error {
	m.ResetCalls++
	return nil
}
