package api

import (
	"net/http"

	"github.com/eventease-api/internal/models"
	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EventHandler handles event endpoints
type EventHandler struct {
	services *service.Services
	dev      bool
	log      zerolog.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(services *service.Services, dev bool, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		services: services,
		dev:      dev,
		log:      log.With().Str("handler", "event").Logger(),
	}
}

// List handles GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.services.Event.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch events. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, events)
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.services.Event.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch event.")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "You must be signed in to create events."})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	event, err := h.services.Event.Create(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to create event. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully!",
		"event":   event,
	})
}

// Delete handles DELETE /api/events/:id and DELETE /api/admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	deleted, err := h.services.Event.Delete(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Event deleted successfully",
		"deletedEvent": deleted,
	})
}

// Attendees handles GET /api/events/:id/attendees
func (h *EventHandler) Attendees(c *gin.Context) {
	list, err := h.services.Attendee.List(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch attendees.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// MyEvents handles GET /api/my-events
func (h *EventHandler) MyEvents(c *gin.Context) {
	events, err := h.services.Event.ListManaged(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch your events.")
		return
	}
	c.JSON(http.StatusOK, events)
}
