package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/database"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/service"
	"github.com/eventease-api/pkg/logger"
	"github.com/rs/zerolog"
)

const usage = `Usage: eventease-admin <command> [arguments]

Commands:
  promote <email>           grant the ADMIN role
  make-staff <email>        grant the STAFF role
  set-role <email> <role>   set any role (ADMIN, STAFF, EVENT_OWNER, ATTENDEE)
  list-users                print every account with its role
  seed                      create demo accounts and sample events
`

func main() {
	fs := flag.NewFlagSet("eventease-admin", flag.ExitOnError)
	timeout := fs.Duration("timeout", 30*time.Second, "overall command timeout")
	migrate := fs.Bool("migrate", true, "run pending migrations before the command")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrate {
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	repos := repository.New(db)
	services := service.NewServices(repos, cache.NewMemoryStore(), cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, os.Stdout, args, repos, services, log); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			fs.Usage()
			os.Exit(2)
		}
		log.Error().Err(err).Str("command", args[0]).Msg("Command failed")
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func run(ctx context.Context, out io.Writer, args []string, repos *repository.Repositories, services *service.Services, log zerolog.Logger) error {
	switch args[0] {
	case "promote":
		if len(args) != 2 {
			return usageError("promote expects exactly one email")
		}
		return setRole(ctx, out, services, args[1], models.RoleAdmin)
	case "make-staff":
		if len(args) != 2 {
			return usageError("make-staff expects exactly one email")
		}
		return setRole(ctx, out, services, args[1], models.RoleStaff)
	case "set-role":
		if len(args) != 3 {
			return usageError("set-role expects an email and a role")
		}
		role, ok := models.ParseRole(args[2])
		if !ok {
			return usageError(fmt.Sprintf("unknown role %q", args[2]))
		}
		return setRole(ctx, out, services, args[1], role)
	case "list-users":
		return listUsers(ctx, out, repos)
	case "seed":
		return seed(ctx, out, repos, services, log)
	default:
		return usageError(fmt.Sprintf("unknown command %q", args[0]))
	}
}

func setRole(ctx context.Context, out io.Writer, services *service.Services, email string, role models.Role) error {
	user, err := services.User.PromoteByEmail(ctx, email, role)
	if errors.Is(err, service.ErrUserNotFound) {
		return fmt.Errorf("no account registered for %s", email)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now %s\n", user.Email, user.Role.DisplayName())
	return nil
}

func listUsers(ctx context.Context, out io.Writer, repos *repository.Repositories) error {
	users, err := repos.User.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tEVENTS\tRSVPS\tCREATED")
	for _, u := range users {
		name := "-"
		if u.Name != nil {
			name = *u.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			u.Email, name, u.Role, u.EventCount, u.RSVPCount, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

type seedAccount struct {
	name     string
	email    string
	password string
	role     models.Role
}

var seedAccounts = []seedAccount{
	{"Admin User", "admin@eventease.com", "Admin123!", models.RoleAdmin},
	{"Staff Member", "staff@eventease.com", "Staff123!", models.RoleStaff},
	{"Event Owner", "owner@eventease.com", "Owner123!", models.RoleEventOwner},
	{"John Attendee", "john@example.com", "User123!", models.RoleAttendee},
	{"Jane Attendee", "jane@example.com", "User123!", models.RoleAttendee},
}

// seed creates the demo accounts and, the first time the owner is created,
// two sample events a few weeks out.
func seed(ctx context.Context, out io.Writer, repos *repository.Repositories, services *service.Services, log zerolog.Logger) error {
	var owner *models.User
	ownerCreated := false

	for _, acct := range seedAccounts {
		user, err := services.User.Register(ctx, acct.name, acct.email, acct.password)
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			log.Info().Str("email", acct.email).Msg("Account exists, skipping")
		case err != nil:
			return fmt.Errorf("register %s: %w", acct.email, err)
		default:
			log.Info().Str("email", acct.email).Msg("Account created")
			if acct.role != user.Role {
				if _, err := services.User.PromoteByEmail(ctx, acct.email, acct.role); err != nil {
					return fmt.Errorf("set role for %s: %w", acct.email, err)
				}
			}
			if acct.role == models.RoleEventOwner {
				ownerCreated = true
			}
		}

		if acct.role == models.RoleEventOwner {
			owner, err = repos.User.GetByEmail(ctx, acct.email)
			if err != nil {
				return err
			}
		}
	}

	if !ownerCreated || owner == nil {
		fmt.Fprintln(out, "Seed complete (sample events already present)")
		return nil
	}

	now := time.Now().UTC()
	samples := []*models.Event{
		{
			Title:       "Tech Conference",
			Description: models.StringPtr("A day of talks on modern backend development."),
			Location:    models.StringPtr("Convention Center, Hall A"),
			Date:        now.AddDate(0, 0, 30).Truncate(time.Hour),
			OwnerID:     owner.ID,
		},
		{
			Title:       "Community Meetup",
			Description: models.StringPtr("Networking evening for local developers."),
			Location:    models.StringPtr("Downtown Library"),
			Date:        now.AddDate(0, 0, 45).Truncate(time.Hour),
			OwnerID:     owner.ID,
		},
	}
	for _, ev := range samples {
		if err := repos.Event.Create(ctx, ev); err != nil {
			return fmt.Errorf("create event %q: %w", ev.Title, err)
		}
		log.Info().Str("event_id", ev.ID).Str("title", ev.Title).Msg("Sample event created")
	}

	fmt.Fprintln(out, "Seed complete")
	return nil
}
