package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/google/uuid"
)

// Store is an in-memory database shared by the mock repositories. It
// enforces the same uniqueness rules as the schema: one user per email and
// one RSVP per (event, user).
type Store struct {
	mu     sync.Mutex
	users  map[string]models.User
	events map[string]models.Event
	rsvps  map[string]models.RSVP

	// Now stamps created rows; defaults to time.Now
	Now func() time.Time

	// BeforeUserCreate runs before a user insert, outside the lock
	BeforeUserCreate func(user *models.User)
	// BeforeRSVPInsert runs before InsertIfAbsent, outside the lock
	BeforeRSVPInsert func(rsvp *models.RSVP)
	// InsertRSVPError is returned by InsertIfAbsent when set
	InsertRSVPError error
	// CountError is returned by every Count method when set
	CountError error

	UserCreateCalls int
	RSVPInsertCalls int
	CountCalls      int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:  make(map[string]models.User),
		events: make(map[string]models.Event),
		rsvps:  make(map[string]models.RSVP),
		Now:    time.Now,
	}
}

// NewRepositories returns repositories backed by a fresh store
func NewRepositories() (*repository.Repositories, *Store) {
	s := NewStore()
	return s.Repositories(), s
}

// Repositories returns repositories backed by s
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:  &MockUserRepository{s: s},
		Event: &MockEventRepository{s: s},
		RSVP:  &MockRSVPRepository{s: s},
	}
}

// RSVPCount returns the number of RSVPs for an event
func (s *Store) RSVPCount(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rsvpCountLocked(eventID)
}

// UserCount returns the number of users
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// UserByEmail returns a copy of the user with email, if any
func (s *Store) UserByEmail(email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userByEmailLocked(email)
}

// AddUser inserts a user directly, assigning an ID when empty
func (s *Store) AddUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.Now()
	}
	s.users[u.ID] = u
	return &u
}

// AddEvent inserts an event directly, assigning an ID when empty
func (s *Store) AddEvent(e models.Event) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.Now()
	}
	s.events[e.ID] = e
	return &e
}

// AddRSVP inserts an RSVP directly
func (s *Store) AddRSVP(r models.RSVP) *models.RSVP {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.Now()
	}
	s.rsvps[r.ID] = r
	return &r
}

func (s *Store) userByEmailLocked(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u
		}
	}
	return nil
}

func (s *Store) rsvpCountLocked(eventID string) int {
	n := 0
	for _, r := range s.rsvps {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (s *Store) eventViewLocked(e models.Event) *models.Event {
	if owner, ok := s.users[e.OwnerID]; ok {
		e.Owner = &models.Owner{Name: owner.Name, Email: owner.Email}
	}
	e.RSVPCount = s.rsvpCountLocked(e.ID)
	return &e
}

func (s *Store) count(n func() int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CountCalls++
	if s.CountError != nil {
		return 0, s.CountError
	}
	return n(), nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	s *Store
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if hook := m.s.BeforeUserCreate; hook != nil {
		hook(user)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.UserCreateCalls++

	if m.s.userByEmailLocked(user.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := m.s.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.s.users[user.ID] = *user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.userByEmailLocked(email), nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	u.UpdatedAt = m.s.Now()
	m.s.users[id] = u
	return &u, nil
}

func (m *MockUserRepository) ClaimGuest(ctx context.Context, id, name, passwordHash string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok || u.PasswordHash != "" {
		return nil, nil
	}
	u.Name = models.StringPtr(name)
	u.PasswordHash = passwordHash
	u.UpdatedAt = m.s.Now()
	m.s.users[id] = u
	return &u, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.ManagedUser, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := make([]*models.ManagedUser, 0, len(m.s.users))
	for _, u := range m.s.users {
		mu := &models.ManagedUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
		for _, e := range m.s.events {
			if e.OwnerID == u.ID {
				mu.EventCount++
			}
		}
		for _, r := range m.s.rsvps {
			if r.UserID == u.ID {
				mu.RSVPCount++
			}
		}
		out = append(out, mu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return m.s.count(func() int { return len(m.s.users) })
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	s *Store
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := m.s.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	m.s.events[event.ID] = *event
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return nil, nil
	}
	return m.s.eventViewLocked(e), nil
}

func (m *MockEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	return m.list(func(models.Event) bool { return true }, func(a, b *models.Event) bool { return a.Date.Before(b.Date) })
}

func (m *MockEventRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Event, error) {
	return m.list(func(e models.Event) bool { return e.OwnerID == ownerID }, func(a, b *models.Event) bool { return a.Date.After(b.Date) })
}

func (m *MockEventRepository) ListAll(ctx context.Context) ([]*models.Event, error) {
	return m.list(func(models.Event) bool { return true }, func(a, b *models.Event) bool { return a.CreatedAt.After(b.CreatedAt) })
}

func (m *MockEventRepository) list(keep func(models.Event) bool, less func(a, b *models.Event) bool) ([]*models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Event, 0)
	for _, e := range m.s.events {
		if keep(e) {
			out = append(out, m.s.eventViewLocked(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func (m *MockEventRepository) DeleteWithRSVPs(ctx context.Context, id string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for rid, r := range m.s.rsvps {
		if r.EventID == id {
			delete(m.s.rsvps, rid)
			n++
		}
	}
	delete(m.s.events, id)
	return n, nil
}

func (m *MockEventRepository) Count(ctx context.Context) (int, error) {
	return m.s.count(func() int { return len(m.s.events) })
}

func (m *MockEventRepository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	return m.s.count(func() int {
		n := 0
		for _, e := range m.s.events {
			if !e.Date.Before(now) {
				n++
			}
		}
		return n
	})
}

// MockRSVPRepository is a mock implementation of RSVPRepository
type MockRSVPRepository struct {
	s *Store
}

func (m *MockRSVPRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.RSVP, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.rsvps {
		if r.EventID == eventID && r.UserID == userID {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MockRSVPRepository) InsertIfAbsent(ctx context.Context, rsvp *models.RSVP) (models.InsertOutcome, error) {
	if m.s.BeforeRSVPInsert != nil {
		m.s.BeforeRSVPInsert(rsvp)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.RSVPInsertCalls++
	if m.s.InsertRSVPError != nil {
		return models.Inserted, m.s.InsertRSVPError
	}
	for _, r := range m.s.rsvps {
		if r.EventID == rsvp.EventID && r.UserID == rsvp.UserID {
			return models.AlreadyExists, nil
		}
	}
	if rsvp.ID == "" {
		rsvp.ID = uuid.New().String()
	}
	rsvp.CreatedAt = m.s.Now()
	m.s.rsvps[rsvp.ID] = *rsvp
	return models.Inserted, nil
}

func (m *MockRSVPRepository) DeleteByEvent(ctx context.Context, eventID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for id, r := range m.s.rsvps {
		if r.EventID == eventID {
			delete(m.s.rsvps, id)
			n++
		}
	}
	return n, nil
}

func (m *MockRSVPRepository) ListAttendees(ctx context.Context, eventID string) ([]*models.Attendee, error) {
	out := make([]*models.Attendee, 0)
	err := m.StreamAttendees(ctx, eventID, func(a *models.Attendee) error {
		out = append(out, a)
		return nil
	})
	return out, err
}

func (m *MockRSVPRepository) StreamAttendees(ctx context.Context, eventID string, callback func(*models.Attendee) error) error {
	m.s.mu.Lock()
	attendees := make([]*models.Attendee, 0)
	for _, r := range m.s.rsvps {
		if r.EventID != eventID {
			continue
		}
		u := m.s.users[r.UserID]
		attendees = append(attendees, &models.Attendee{RSVPID: r.ID, Name: u.Name, Email: u.Email, CreatedAt: r.CreatedAt})
	}
	m.s.mu.Unlock()

	sort.Slice(attendees, func(i, j int) bool {
		if attendees[i].CreatedAt.Equal(attendees[j].CreatedAt) {
			return attendees[i].RSVPID < attendees[j].RSVPID
		}
		return attendees[i].CreatedAt.Before(attendees[j].CreatedAt)
	})
	for _, a := range attendees {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockRSVPRepository) Count(ctx context.Context) (int, error) {
	return m.s.count(func() int { return len(m.s.rsvps) })
}

var (
	_ repository.UserRepository  = (*MockUserRepository)(nil)
	_ repository.EventRepository = (*MockEventRepository)(nil)
	_ repository.RSVPRepository  = (*MockRSVPRepository)(nil)
)
