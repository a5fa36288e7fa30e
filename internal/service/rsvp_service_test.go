package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
)

func TestRSVPSubmit_CreatesGuestAndRSVP(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)

	res, err := f.svc.RSVP.Submit(context.Background(), event.ID,
		models.RSVPRequest{Name: "  Alice  ", Email: " Alice@Example.com "}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.IdentityCreated, res.Identity.Kind)
	assert.False(t, res.Identity.Authenticated)
	assert.Equal(t, "Launch Party", res.Confirmation.EventTitle)
	assert.Equal(t, "Alice", res.Confirmation.AttendeeName)
	assert.Equal(t, "alice@example.com", res.Confirmation.AttendeeEmail)
	assert.NotEmpty(t, res.Confirmation.ID)
	assert.Equal(t, f.now, res.Confirmation.CreatedAt)
	assert.Equal(t, 1, f.store.RSVPCount(event.ID))

	guest := f.store.UserByEmail("alice@example.com")
	require.NotNil(t, guest)
	assert.True(t, guest.IsGuest())
	assert.Equal(t, models.RoleAttendee, guest.Role)
	assert.Equal(t, "Alice", guest.DisplayName())
}

func TestRSVPSubmit_RepeatIsConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)
	ctx := context.Background()

	_, err := f.svc.RSVP.Submit(ctx, event.ID, models.RSVPRequest{Name: "Alice", Email: "alice@example.com"}, nil)
	require.NoError(t, err)

	_, err = f.svc.RSVP.Submit(ctx, event.ID, models.RSVPRequest{Name: "Alice Again", Email: "ALICE@example.com"}, nil)
	assert.ErrorIs(t, err, service.ErrEmailAlreadyUsed)
	assert.Equal(t, 1, f.store.RSVPCount(event.ID))
	assert.Equal(t, 2, f.store.UserCount())
}

func TestRSVPSubmit_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)

	const n = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0
	var unexpected []error

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RSVP.Submit(context.Background(), event.ID,
				models.RSVPRequest{Name: "Alice", Email: "alice@example.com"}, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, service.ErrEmailAlreadyUsed):
				conflicts++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, 1, f.store.RSVPCount(event.ID))
	assert.Equal(t, 2, f.store.UserCount())
}

// A concurrent request can record the RSVP after the duplicate lookup and
// before the insert. The insert conflict must map to the same error.
func TestRSVPSubmit_ConflictAtInsert(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		wantErr       error
		wantUsers     int
	}{
		{name: "anonymous", wantErr: service.ErrEmailAlreadyUsed, wantUsers: 2},
		{name: "authenticated", authenticated: true, wantErr: service.ErrAlreadyRSVPd, wantUsers: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
			event := f.addEvent(owner, "Launch Party", time.Hour)

			var sess *auth.Session
			if tt.authenticated {
				sess = sessionFor(f.addUser("alice@example.com", "Alice", models.RoleAttendee))
			}

			f.store.BeforeRSVPInsert = func(rsvp *models.RSVP) {
				f.store.AddRSVP(models.RSVP{EventID: rsvp.EventID, UserID: rsvp.UserID})
			}

			_, err := f.svc.RSVP.Submit(context.Background(), event.ID,
				models.RSVPRequest{Name: "Alice", Email: "alice@example.com"}, sess)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, f.store.RSVPInsertCalls)
			assert.Equal(t, 1, f.store.RSVPCount(event.ID))
			assert.Equal(t, tt.wantUsers, f.store.UserCount())
		})
	}
}

func TestRSVPSubmit_PastEvent(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	past := f.addEvent(owner, "Yesterday", -24*time.Hour)
	startingNow := f.addEvent(owner, "Right Now", 0)

	for _, ev := range []*models.Event{past, startingNow} {
		_, err := f.svc.RSVP.Submit(context.Background(), ev.ID,
			models.RSVPRequest{Name: "Alice", Email: "alice@example.com"}, nil)
		assert.ErrorIs(t, err, service.ErrEventInPast)
		assert.Equal(t, 0, f.store.RSVPCount(ev.ID))
	}
	assert.Nil(t, f.store.UserByEmail("alice@example.com"))
}

func TestRSVPSubmit_ValidationHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)

	tests := []struct {
		name  string
		req   models.RSVPRequest
		field string
	}{
		{name: "empty name", req: models.RSVPRequest{Name: "", Email: "a@example.com"}, field: "name"},
		{name: "one char name", req: models.RSVPRequest{Name: "A", Email: "a@example.com"}, field: "name"},
		{name: "bad email", req: models.RSVPRequest{Name: "Alice", Email: "not-an-email"}, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RSVP.Submit(context.Background(), event.ID, tt.req, nil)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	assert.Equal(t, 0, f.store.RSVPCount(event.ID))
	assert.Equal(t, 0, f.store.UserCreateCalls)
}

func TestRSVPSubmit_ValidationBeforeEventLookup(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RSVP.Submit(context.Background(), "missing", models.RSVPRequest{Name: "A", Email: "x"}, nil)
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRSVPSubmit_EventNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RSVP.Submit(context.Background(), "missing",
		models.RSVPRequest{Name: "Alice", Email: "alice@example.com"}, nil)
	assert.ErrorIs(t, err, service.ErrEventNotFound)
	assert.Equal(t, 0, f.store.UserCount())
}

func TestRSVPSubmit_SessionWinsOverSubmittedEmail(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	bob := f.addUser("bob@example.com", "Bob", models.RoleAttendee)
	event := f.addEvent(owner, "Launch Party", time.Hour)
	ctx := context.Background()

	res, err := f.svc.RSVP.Submit(ctx, event.ID,
		models.RSVPRequest{Name: "Someone Else", Email: "other@example.com"}, sessionFor(bob))
	require.NoError(t, err)

	assert.Equal(t, models.IdentityExisting, res.Identity.Kind)
	assert.True(t, res.Identity.Authenticated)
	assert.Equal(t, bob.ID, res.Identity.User.ID)
	assert.Equal(t, "bob@example.com", res.Confirmation.AttendeeEmail)
	assert.Equal(t, "Bob", res.Confirmation.AttendeeName)
	assert.Nil(t, f.store.UserByEmail("other@example.com"))

	_, err = f.svc.RSVP.Submit(ctx, event.ID,
		models.RSVPRequest{Name: "Bob", Email: "bob@example.com"}, sessionFor(bob))
	assert.ErrorIs(t, err, service.ErrAlreadyRSVPd)
	assert.Equal(t, 1, f.store.RSVPCount(event.ID))
}

func TestRSVPSubmit_UnknownSessionFallsBackToEmail(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)

	ghost := &auth.Session{UserID: "gone", Email: "gone@example.com", Role: models.RoleAttendee}
	res, err := f.svc.RSVP.Submit(context.Background(), event.ID,
		models.RSVPRequest{Name: "Carol", Email: "carol@example.com"}, ghost)
	require.NoError(t, err)

	assert.False(t, res.Identity.Authenticated)
	assert.Equal(t, models.IdentityCreated, res.Identity.Kind)
	assert.Equal(t, "carol@example.com", res.Identity.User.Email)
}

func TestRSVPSubmit_ExistingAccountByEmail(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	dave := f.addUser("dave@example.com", "Dave", models.RoleAttendee)
	event := f.addEvent(owner, "Launch Party", time.Hour)

	res, err := f.svc.RSVP.Submit(context.Background(), event.ID,
		models.RSVPRequest{Name: "Dave", Email: "DAVE@example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.IdentityExisting, res.Identity.Kind)
	assert.Equal(t, dave.ID, res.Identity.User.ID)
	assert.Equal(t, 0, f.store.UserCreateCalls)
}

func TestRSVPResolveIdentity_LostGuestRace(t *testing.T) {
	f := newFixture(t)

	var once sync.Once
	var winner *models.User
	f.store.BeforeUserCreate = func(u *models.User) {
		once.Do(func() {
			winner = f.store.AddUser(models.User{Email: u.Email, Role: models.RoleAttendee})
		})
	}

	id, err := f.svc.RSVP.ResolveIdentity(context.Background(), "Erin", "erin@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.IdentityExisting, id.Kind)
	assert.Equal(t, winner.ID, id.User.ID)
	assert.Equal(t, 1, f.store.UserCount())
}

func TestRSVPSubmit_InsertFailureKeepsGuest(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner@example.com", "Olive", models.RoleEventOwner)
	event := f.addEvent(owner, "Launch Party", time.Hour)
	boom := errors.New("connection reset")
	f.store.InsertRSVPError = boom

	_, err := f.svc.RSVP.Submit(context.Background(), event.ID,
		models.RSVPRequest{Name: "Frank", Email: "frank@example.com"}, nil)
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, f.store.UserByEmail("frank@example.com"))
	assert.Equal(t, 0, f.store.RSVPCount(event.ID))
}
