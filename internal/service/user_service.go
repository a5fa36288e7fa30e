package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventease-api/internal/auth"
	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/validation"
	"github.com/rs/zerolog"
)

// LoginResult is a signed session for a user
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// userService is the concrete implementation of UserService
type userService struct {
	repos  *repository.Repositories
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	log    zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(repos *repository.Repositories, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log zerolog.Logger) *userService {
	return &userService{
		repos:  repos,
		hasher: hasher,
		tokens: tokens,
		log:    log.With().Str("service", "user").Logger(),
	}
}

// Register creates an ATTENDEE account. A guest account left behind by an
// anonymous RSVP is claimed instead, keeping its role and RSVPs.
func (s *userService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := validationError(validation.ValidateRegistration(name, email, password)); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = validation.NormalizeEmail(email)

	existing, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if existing != nil && !existing.IsGuest() {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if existing != nil {
		claimed, err := s.repos.User.ClaimGuest(ctx, existing.ID, name, hash)
		if err != nil {
			return nil, fmt.Errorf("claim guest: %w", err)
		}
		if claimed == nil {
			// Claimed by a concurrent registration
			return nil, ErrEmailTaken
		}
		s.log.Info().Str("user_id", claimed.ID).Msg("Guest account claimed")
		return claimed, nil
	}

	user := &models.User{
		Email:        email,
		Name:         models.StringPtr(name),
		PasswordHash: hash,
		Role:         models.RoleAttendee,
	}
	err = s.repos.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues a session token
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repos.User.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentUser returns the session's account with its role as stored now
func (s *userService) CurrentUser(ctx context.Context, session *auth.Session) (*models.User, error) {
	return sessionUser(ctx, s.repos.User, session)
}

// List returns all users for administrators
func (s *userService) List(ctx context.Context, session *auth.Session) ([]*models.ManagedUser, error) {
	if _, err := s.requireAdmin(ctx, session); err != nil {
		return nil, err
	}
	return s.repos.User.List(ctx)
}

// ChangeRole sets another user's role. Administrators only.
func (s *userService) ChangeRole(ctx context.Context, session *auth.Session, userID, role string) (*models.User, error) {
	admin, err := s.requireAdmin(ctx, session)
	if err != nil {
		return nil, err
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}

	user, err := s.repos.User.UpdateRole(ctx, userID, parsed)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(parsed)).
		Str("changed_by", admin.ID).
		Msg("User role changed")
	return user, nil
}

// PromoteByEmail sets the role of the user with the given email
func (s *userService) PromoteByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repos.User.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == role {
		return user, nil
	}

	updated, err := s.repos.User.UpdateRole(ctx, user.ID, role)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

func (s *userService) requireAdmin(ctx context.Context, session *auth.Session) (*models.User, error) {
	user, err := sessionUser(ctx, s.repos.User, session)
	if err != nil {
		return nil, err
	}
	if !user.Role.AtLeast(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return user, nil
}
