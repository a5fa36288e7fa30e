package api

import (
	"errors"
	"net/http"

	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgInvalidBody  = "Invalid request data. Please check your input."
	msgFixErrors    = "Please fix the following errors:"
	msgUnauthorized = "You must be signed in to perform this action."
	msgForbidden    = "Access denied. You do not have permission to perform this action."
)

// mapServiceError translates a service error into a status and message.
// ok is false for errors with no client-facing meaning.
func mapServiceError(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return http.StatusNotFound, "Event not found", true
	case errors.Is(err, service.ErrEventInPast):
		return http.StatusBadRequest, "Cannot RSVP to past events", true
	case errors.Is(err, service.ErrAlreadyRSVPd):
		return http.StatusConflict, "You have already RSVPed to this event", true
	case errors.Is(err, service.ErrEmailAlreadyUsed):
		return http.StatusConflict, "This email address has already been used to RSVP to this event", true
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, msgUnauthorized, true
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, msgForbidden, true
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role specified.", true
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "An account with this email already exists.", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password.", true
	case errors.Is(err, service.ErrAttendeeCannotCreate):
		return http.StatusForbidden, "Access denied. Attendees can only monitor events and view the home page. Event creation is restricted to Event Owners, Staff, and Administrators.", true
	}
	return http.StatusInternalServerError, "", false
}

// respondError writes the JSON error response for err. Unknown errors are
// logged and answered with fallback; the detail is only exposed in
// development.
func respondError(c *gin.Context, log zerolog.Logger, dev bool, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": msgFixErrors,
			"errors":  verr.Fields,
		})
		return
	}

	if status, msg, ok := mapServiceError(err); ok {
		c.JSON(status, gin.H{"message": msg})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
	body := gin.H{"message": fallback}
	if dev {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// respondBadBody answers a request whose body could not be decoded
func respondBadBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
}
