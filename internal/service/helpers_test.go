package service_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/mocks"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *service.Services
	store *mocks.Store
	cache *cache.MemoryStore
	now   time.Time
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			Issuer:     "eventease",
			TokenTTL:   time.Hour,
			CookieName: "eventease_session",
			BcryptCost: bcrypt.MinCost,
		},
		Cache:  config.CacheConfig{StatsTTL: 5 * time.Minute},
		Export: config.ExportConfig{TimeZone: "UTC"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: baseTime}
	repos, store := mocks.NewRepositories()
	store.Now = func() time.Time { return f.now }
	f.store = store
	f.cache = cache.NewMemoryStoreWithClock(func() time.Time { return f.now })
	f.svc = service.NewServices(repos, f.cache, testConfig(), zerolog.Nop(),
		service.WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) addUser(email, name string, role models.Role) *models.User {
	return f.store.AddUser(models.User{
		Email:        email,
		Name:         models.StringPtr(name),
		PasswordHash: "$2a$04$placeholder",
		Role:         role,
	})
}

func (f *fixture) addEvent(owner *models.User, title string, in time.Duration) *models.Event {
	return f.store.AddEvent(models.Event{
		Title:   title,
		Date:    f.now.Add(in),
		OwnerID: owner.ID,
	})
}

func sessionFor(u *models.User) *auth.Session {
	return &auth.Session{UserID: u.ID, Email: u.Email, Role: u.Role}
}
