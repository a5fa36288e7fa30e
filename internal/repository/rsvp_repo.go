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

// rsvpUniqueConstraint guards one RSVP per (event, user)
const rsvpUniqueConstraint = "rsvps_event_id_user_id_key"

// rsvpRepo is the concrete implementation of RSVPRepository
type rsvpRepo struct {
	db *database.DB
}

// NewRSVPRepo creates a new RSVP repository
func NewRSVPRepo(db *database.DB) RSVPRepository {
	return &rsvpRepo{db: db}
}

// FindByEventAndUser retrieves the RSVP for a (event, user) pair
func (r *rsvpRepo) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.RSVP, error) {
	query := `SELECT id, event_id, user_id, created_at FROM rsvps WHERE event_id = $1 AND user_id = $2`

	var rsvp models.RSVP
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// InsertIfAbsent writes the RSVP unless one already exists for the same
// (event, user) pair. The unique constraint decides; concurrent callers for
// the same pair see exactly one Inserted.
func (r *rsvpRepo) InsertIfAbsent(ctx context.Context, rsvp *models.RSVP) (models.InsertOutcome, error) {
	if rsvp.ID == "" {
		rsvp.ID = uuid.New().String()
	}

	query := `
		INSERT INTO rsvps (id, event_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, rsvp.ID, rsvp.EventID, rsvp.UserID, time.Now().UTC()).Scan(&createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.AlreadyExists, nil
	case database.IsUniqueViolation(err, rsvpUniqueConstraint):
		return models.AlreadyExists, nil
	case err != nil:
		return models.Inserted, fmt.Errorf("insert rsvp: %w", err)
	}

	rsvp.CreatedAt = createdAt
	return models.Inserted, nil
}

// DeleteByEvent removes all RSVPs for an event
func (r *rsvpRepo) DeleteByEvent(ctx context.Context, eventID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("delete rsvps: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ListAttendees returns an event's attendees in RSVP order
func (r *rsvpRepo) ListAttendees(ctx context.Context, eventID string) ([]*models.Attendee, error) {
	attendees := make([]*models.Attendee, 0)
	err := r.StreamAttendees(ctx, eventID, func(a *models.Attendee) error {
		attendees = append(attendees, a)
		return nil
	})
	return attendees, err
}

// StreamAttendees streams an event's attendees ordered by RSVP time
func (r *rsvpRepo) StreamAttendees(ctx context.Context, eventID string, callback func(*models.Attendee) error) error {
	query := `
		SELECT r.id, u.name, u.email, r.created_at
		FROM rsvps r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at ASC, r.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attendee
		var name sql.NullString
		if err := rows.Scan(&a.RSVPID, &name, &a.Email, &a.CreatedAt); err != nil {
			return err
		}
		a.Name = nullStringPtr(name)

		if err := callback(&a); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Count returns the total number of RSVPs
func (r *rsvpRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rsvps").Scan(&count)
	return count, err
}
