package api

import (
	"fmt"
	"net/http"

	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles attendee export
type ExportHandler struct {
	services *service.Services
	dev      bool
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, dev bool, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		dev:      dev,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// ExportAttendees handles GET /api/events/:id/attendees/export
// Errors found before streaming are JSON; the document itself is CSV.
func (h *ExportHandler) ExportAttendees(c *gin.Context) {
	ctx := c.Request.Context()

	event, err := h.services.Attendee.Authorize(ctx, currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to export attendees")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFilename(event.Title)))
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	if err := h.services.Attendee.Export(ctx, event, c.Writer); err != nil {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("event_id", event.ID).Msg("Attendee export failed")
	}
}
