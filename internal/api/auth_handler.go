package api

import (
	"errors"
	"net/http"

	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler handles registration and sessions
type AuthHandler struct {
	services   *service.Services
	cookieName string
	dev        bool
	log        zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services:   services,
		cookieName: cfg.Auth.CookieName,
		dev:        cfg.IsDevelopment(),
		log:        log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to create account. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully! Welcome to EventEase.",
		"user":    user.Summary(),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}

	res, err := h.services.User.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to sign in. Please try again.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, res.Token, int(h.services.Tokens.TTL().Seconds()), "/", "", !h.dev, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User.Summary(),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", !h.dev, true)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user, err := h.services.User.CurrentUser(c.Request.Context(), sess)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	if err != nil {
		respondError(c, h.log, h.dev, err, "Failed to load session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}
