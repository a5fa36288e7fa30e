package api

import (
	"net/http"
	"time"

	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Router is the HTTP handler together with the resources it owns
type Router struct {
	*gin.Engine
	limiter *RateLimiter
}

// Close stops background work started by the router
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *Router {
	if !cfg.IsDevelopment() && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(sessionMiddleware(services.Tokens, cfg.Auth.CookieName, log))

	writeLimit := func(c *gin.Context) { c.Next() }
	var limiter *RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = NewRateLimiter(LimiterConfig{
			RPS:     cfg.RateLimit.RPS,
			Burst:   cfg.RateLimit.Burst,
			IdleTTL: cfg.RateLimit.IdleTTL,
		})
		writeLimit = limiter.Middleware(clientIPKey)
	}

	dev := cfg.IsDevelopment()
	rsvpHandler := NewRSVPHandler(services, dev, log)
	eventHandler := NewEventHandler(services, dev, log)
	exportHandler := NewExportHandler(services, dev, log)
	authHandler := NewAuthHandler(services, cfg, log)
	adminHandler := NewAdminHandler(services, dev, log)

	// Health check
	router.GET("/health", healthCheck)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/register", writeLimit, authHandler.Register)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/login", writeLimit, authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/session", authHandler.Session)
		}

		events := apiGroup.Group("/events")
		{
			events.GET("", eventHandler.List)
			events.POST("", writeLimit, eventHandler.Create)
			events.GET("/:id", eventHandler.Get)
			events.DELETE("/:id", eventHandler.Delete)
			events.POST("/:id/rsvp", writeLimit, rsvpHandler.SubmitForEvent)
			events.GET("/:id/attendees", eventHandler.Attendees)
			events.GET("/:id/attendees/export", exportHandler.ExportAttendees)
		}

		apiGroup.POST("/rsvp", writeLimit, rsvpHandler.Submit)
		apiGroup.GET("/my-events", eventHandler.MyEvents)

		admin := apiGroup.Group("/admin")
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/role", adminHandler.ChangeRole)
			admin.GET("/events", adminHandler.ListEvents)
			admin.DELETE("/events/:id", eventHandler.Delete)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	return &Router{Engine: router, limiter: limiter}
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "eventease-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
