package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eventease-api/internal/database"
	"github.com/eventease-api/internal/models"
	"github.com/google/uuid"
)

// eventListColumns selects an event with its owner summary and RSVP count
const eventListColumns = `
	e.id, e.title, e.description, e.location, e.date, e.owner_id, e.created_at, e.updated_at,
	u.name, u.email,
	(SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id)
`

// eventRepo is the concrete implementation of EventRepository
type eventRepo struct {
	db *database.DB
}

// NewEventRepo creates a new event repository
func NewEventRepo(db *database.DB) EventRepository {
	return &eventRepo{db: db}
}

// Create inserts a new event
func (r *eventRepo) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO events (id, title, description, location, date, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.Date,
		event.OwnerID, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID retrieves an event with its owner and RSVP count
func (r *eventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if !isUUID(id) {
		return nil, nil
	}

	query := `SELECT ` + eventListColumns + `
		FROM events e JOIN users u ON u.id = e.owner_id
		WHERE e.id = $1`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanEvent(rows)
}

// List returns all events ordered by date ascending
func (r *eventRepo) List(ctx context.Context) ([]*models.Event, error) {
	return r.query(ctx, `SELECT `+eventListColumns+`
		FROM events e JOIN users u ON u.id = e.owner_id
		ORDER BY e.date ASC`)
}

// ListByOwner returns an owner's events, latest date first
func (r *eventRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Event, error) {
	return r.query(ctx, `SELECT `+eventListColumns+`
		FROM events e JOIN users u ON u.id = e.owner_id
		WHERE e.owner_id = $1
		ORDER BY e.date DESC`, ownerID)
}

// ListAll returns every event for the admin dashboard, newest first
func (r *eventRepo) ListAll(ctx context.Context) ([]*models.Event, error) {
	return r.query(ctx, `SELECT `+eventListColumns+`
		FROM events e JOIN users u ON u.id = e.owner_id
		ORDER BY e.created_at DESC`)
}

// DeleteWithRSVPs removes an event's RSVPs and then the event itself in one
// transaction. It returns the number of RSVPs removed.
func (r *eventRepo) DeleteWithRSVPs(ctx context.Context, id string) (int, error) {
	var deleted int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete rsvps: %w", err)
		}
		deleted, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// Count returns the total number of events
func (r *eventRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}

// CountUpcoming returns the number of events dated at or after now
func (r *eventRepo) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE date >= $1", now).Scan(&count)
	return count, err
}

func (r *eventRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (*models.Event, error) {
	var e models.Event
	var description, location, ownerName sql.NullString
	var owner models.Owner

	err := rows.Scan(
		&e.ID, &e.Title, &description, &location, &e.Date, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt,
		&ownerName, &owner.Email,
		&e.RSVPCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Description = nullStringPtr(description)
	e.Location = nullStringPtr(location)
	owner.Name = nullStringPtr(ownerName)
	e.Owner = &owner
	return &e, nil
}
