package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/mocks"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/service"
)

func newTestCLI(t *testing.T) (*repository.Repositories, *mocks.Store, *service.Services) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			Issuer:     "eventease",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Cache:  config.CacheConfig{StatsTTL: time.Minute},
		Export: config.ExportConfig{TimeZone: "UTC"},
	}
	repos, store := mocks.NewRepositories()
	svc := service.NewServices(repos, cache.NewMemoryStore(), cfg, zerolog.Nop())
	return repos, store, svc
}

func TestRun_UsageErrors(t *testing.T) {
	repos, _, svc := newTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"frobnicate"}},
		{name: "promote without email", args: []string{"promote"}},
		{name: "make-staff with extra args", args: []string{"make-staff", "a@example.com", "b@example.com"}},
		{name: "set-role missing role", args: []string{"set-role", "a@example.com"}},
		{name: "set-role unknown role", args: []string{"set-role", "a@example.com", "KING"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), &bytes.Buffer{}, tt.args, repos, svc, zerolog.Nop())
			var usageErr usageError
			assert.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestRun_RoleCommands(t *testing.T) {
	repos, store, svc := newTestCLI(t)
	ctx := context.Background()
	store.AddUser(models.User{Email: "ada@example.com", PasswordHash: "x", Role: models.RoleAttendee})

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, []string{"make-staff", "ada@example.com"}, repos, svc, zerolog.Nop()))
	assert.Equal(t, models.RoleStaff, store.UserByEmail("ada@example.com").Role)
	assert.Contains(t, out.String(), "Staff Member")

	require.NoError(t, run(ctx, &out, []string{"promote", "ADA@example.com"}, repos, svc, zerolog.Nop()))
	assert.Equal(t, models.RoleAdmin, store.UserByEmail("ada@example.com").Role)

	require.NoError(t, run(ctx, &out, []string{"set-role", "ada@example.com", "event_owner"}, repos, svc, zerolog.Nop()))
	assert.Equal(t, models.RoleEventOwner, store.UserByEmail("ada@example.com").Role)

	err := run(ctx, &out, []string{"promote", "nobody@example.com"}, repos, svc, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account registered")
}

func TestRun_SeedIsIdempotent(t *testing.T) {
	repos, store, svc := newTestCLI(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, &out, []string{"seed"}, repos, svc, zerolog.Nop()))
	assert.Equal(t, len(seedAccounts), store.UserCount())

	for _, acct := range seedAccounts {
		u := store.UserByEmail(acct.email)
		require.NotNil(t, u, acct.email)
		assert.Equal(t, acct.role, u.Role, acct.email)
		assert.False(t, u.IsGuest())
	}

	events, err := repos.Event.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, events)

	out.Reset()
	require.NoError(t, run(ctx, &out, []string{"seed"}, repos, svc, zerolog.Nop()))
	assert.Contains(t, out.String(), "already present")
	assert.Equal(t, len(seedAccounts), store.UserCount())

	events, err = repos.Event.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, events)
}

func TestRun_ListUsers(t *testing.T) {
	repos, store, svc := newTestCLI(t)
	store.AddUser(models.User{Email: "ada@example.com", Name: models.StringPtr("Ada"), PasswordHash: "x", Role: models.RoleAdmin})
	store.AddUser(models.User{Email: "gus@example.com", Role: models.RoleAttendee})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, []string{"list-users"}, repos, svc, zerolog.Nop()))

	text := out.String()
	assert.Contains(t, text, "EMAIL")
	assert.Contains(t, text, "ada@example.com")
	assert.Contains(t, text, "ADMIN")
	assert.Contains(t, text, "gus@example.com")
}
