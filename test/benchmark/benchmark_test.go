package benchmark

import (
	"context"
	"fmt"
	"io"
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
	"github.com/eventease-api/internal/validation"
)

func benchConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  "bench-secret",
			Issuer:     "eventease",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		Cache:  config.CacheConfig{StatsTTL: 5 * time.Minute},
		Export: config.ExportConfig{TimeZone: "UTC"},
	}
}

func newBenchServices(b *testing.B) (*service.Services, *mocks.Store, *models.User) {
	b.Helper()
	repos, store := mocks.NewRepositories()
	svc := service.NewServices(repos, cache.NewMemoryStore(), benchConfig(), zerolog.Nop())
	owner := store.AddUser(models.User{
		Email:        "owner@bench.test",
		Name:         models.StringPtr("Owner"),
		PasswordHash: "$2a$04$placeholder",
		Role:         models.RoleEventOwner,
	})
	return svc, store, owner
}

// BenchmarkRSVPSubmit benchmarks anonymous submissions that create a guest
// account and an RSVP each
func BenchmarkRSVPSubmit(b *testing.B) {
	svc, store, owner := newBenchServices(b)
	event := store.AddEvent(models.Event{
		Title:   "Bench Event",
		Date:    time.Now().Add(24 * time.Hour),
		OwnerID: owner.ID,
	})
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := models.RSVPRequest{
			Name:  "Guest Attendee",
			Email: fmt.Sprintf("guest%06d@bench.test", i),
		}
		if _, err := svc.RSVP.Submit(ctx, event.ID, req, nil); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "rsvps/sec")
}

// BenchmarkRSVPDuplicate benchmarks the rejection path for a repeated email
func BenchmarkRSVPDuplicate(b *testing.B) {
	svc, store, owner := newBenchServices(b)
	event := store.AddEvent(models.Event{
		Title:   "Bench Event",
		Date:    time.Now().Add(24 * time.Hour),
		OwnerID: owner.ID,
	})
	ctx := context.Background()
	req := models.RSVPRequest{Name: "Repeat Guest", Email: "repeat@bench.test"}
	if _, err := svc.RSVP.Submit(ctx, event.ID, req, nil); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.RSVP.Submit(ctx, event.ID, req, nil); err == nil {
			b.Fatal("expected duplicate rejection")
		}
	}
}

// BenchmarkAttendeeExport benchmarks CSV generation for 1000 attendees
func BenchmarkAttendeeExport(b *testing.B) {
	svc, store, owner := newBenchServices(b)
	event := store.AddEvent(models.Event{
		Title:   "Export Event",
		Date:    time.Now().Add(24 * time.Hour),
		OwnerID: owner.ID,
	})
	start := time.Now().Add(-time.Hour)
	for i := 0; i < 1000; i++ {
		u := store.AddUser(models.User{
			Email: fmt.Sprintf("user%06d@bench.test", i),
			Name:  models.StringPtr(fmt.Sprintf("Attendee, %d", i)),
			Role:  models.RoleAttendee,
		})
		store.AddRSVP(models.RSVP{
			EventID:   event.ID,
			UserID:    u.ID,
			CreatedAt: start.Add(time.Duration(i) * time.Second),
		})
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := svc.Attendee.Export(ctx, event, io.Discard); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkValidateRSVP benchmarks the submission field checks
func BenchmarkValidateRSVP(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if errs := validation.ValidateRSVP("Test User", "test@example.com"); errs != nil {
			b.Fatal(errs)
		}
	}
}

// BenchmarkValidateRSVPParallel benchmarks the shared validator under load
func BenchmarkValidateRSVPParallel(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = validation.ValidateRSVP("x", "not-an-email")
		}
	})
}

// BenchmarkStatsCached benchmarks dashboard stats served from the cache
func BenchmarkStatsCached(b *testing.B) {
	repos, store := mocks.NewRepositories()
	svc := service.NewServices(repos, cache.NewMemoryStore(), benchConfig(), zerolog.Nop())
	admin := store.AddUser(models.User{
		Email:        "admin@bench.test",
		PasswordHash: "$2a$04$placeholder",
		Role:         models.RoleAdmin,
	})
	sess := &auth.Session{UserID: admin.ID, Email: admin.Email, Role: admin.Role}
	ctx := context.Background()
	if _, err := svc.Stats.Get(ctx, sess); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Stats.Get(ctx, sess); err != nil {
			b.Fatal(err)
		}
	}
}
