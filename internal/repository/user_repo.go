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

const userColumns = `id, email, name, password, role, created_at, updated_at`

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user. The email must already be normalized.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, name, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt,
	)
	if database.IsUniqueViolation(err, "users_email_key") {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by normalized email
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// UpdateRole sets a user's role and returns the updated row, or nil if no
// such user exists
func (r *userRepo) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		UPDATE users SET role = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, role, time.Now().UTC(), id))
}

// ClaimGuest sets the name and password of a guest account. It only matches
// rows whose password is still empty.
func (r *userRepo) ClaimGuest(ctx context.Context, id, name, passwordHash string) (*models.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		UPDATE users SET name = $1, password = $2, updated_at = $3
		WHERE id = $4 AND password = ''
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, name, passwordHash, time.Now().UTC(), id))
}

// List returns every user with their event and RSVP counts, newest first
func (r *userRepo) List(ctx context.Context) ([]*models.ManagedUser, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.created_at,
			(SELECT COUNT(*) FROM events e WHERE e.owner_id = u.id),
			(SELECT COUNT(*) FROM rsvps r WHERE r.user_id = u.id)
		FROM users u
		ORDER BY u.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.ManagedUser, 0)
	for rows.Next() {
		var u models.ManagedUser
		var name sql.NullString
		if err := rows.Scan(&u.ID, &name, &u.Email, &u.Role, &u.CreatedAt, &u.EventCount, &u.RSVPCount); err != nil {
			return nil, err
		}
		u.Name = nullStringPtr(name)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var name sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &name, &user.PasswordHash, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Name = nullStringPtr(name)
	return &user, nil
}

// nullStringPtr converts a nullable column to *string
func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
