package api

import (
	"net/http"
	"strings"

	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const msgRSVPCreated = "RSVP submitted successfully! Thank you for registering."

// RSVPHandler handles RSVP submission endpoints
type RSVPHandler struct {
	services *service.Services
	dev      bool
	log      zerolog.Logger
}

// NewRSVPHandler creates a new RSVPHandler
func NewRSVPHandler(services *service.Services, dev bool, log zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		services: services,
		dev:      dev,
		log:      log.With().Str("handler", "rsvp").Logger(),
	}
}

// rsvpBody accepts any JSON type per field so that a wrong type is reported
// by field validation rather than as an unreadable body
type rsvpBody struct {
	EventID any `json:"eventId"`
	Name    any `json:"name"`
	Email   any `json:"email"`
}

func (b rsvpBody) request() models.RSVPRequest {
	return models.RSVPRequest{
		EventID: stringOrEmpty(b.EventID),
		Name:    stringOrEmpty(b.Name),
		Email:   stringOrEmpty(b.Email),
	}
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

// SubmitForEvent handles POST /api/events/:id/rsvp
func (h *RSVPHandler) SubmitForEvent(c *gin.Context) {
	var body rsvpBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadBody(c)
		return
	}
	h.submit(c, c.Param("id"), body.request())
}

// Submit handles POST /api/rsvp with the event ID in the body
func (h *RSVPHandler) Submit(c *gin.Context) {
	var body rsvpBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadBody(c)
		return
	}
	req := body.request()

	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": msgFixErrors,
			"errors":  gin.H{"eventId": "Event ID is required"},
		})
		return
	}
	h.submit(c, eventID, req)
}

func (h *RSVPHandler) submit(c *gin.Context, eventID string, req models.RSVPRequest) {
	res, err := h.services.RSVP.Submit(c.Request.Context(), eventID, req, currentSession(c))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to submit RSVP. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": msgRSVPCreated,
		"rsvp":    res.Confirmation,
	})
}
