package api

import (
	"net/http"

	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type changeRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// AdminHandler handles the admin dashboard endpoints
type AdminHandler struct {
	services *service.Services
	dev      bool
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, dev bool, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		dev:      dev,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.services.User.List(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ChangeRole handles POST /api/admin/users/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID and role are required."})
		return
	}

	user, err := h.services.User.ChangeRole(c.Request.Context(), currentSession(c), req.UserID, req.Role)
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to update user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user.Summary(),
	})
}

// ListEvents handles GET /api/admin/events
func (h *AdminHandler) ListEvents(c *gin.Context) {
	events, err := h.services.Event.ListAll(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.services.Stats.Get(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to fetch statistics")
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.JSON(http.StatusOK, stats)
}
