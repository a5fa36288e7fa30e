package service

import (
	"errors"

	"github.com/eventease-api/internal/validation"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventInPast          = errors.New("cannot rsvp to past events")
	ErrAlreadyRSVPd         = errors.New("you have already rsvped to this event")
	ErrEmailAlreadyUsed     = errors.New("email already used to rsvp to this event")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("insufficient permissions")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrEmailTaken           = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAttendeeCannotCreate = errors.New("attendees cannot create events")
)

// ValidationError carries per-field messages for a rejected request
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func validationError(fields validation.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
