package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/eventease-api/internal/api"
	"github.com/eventease-api/internal/cache"
	"github.com/eventease-api/internal/config"
	"github.com/eventease-api/internal/database"
	"github.com/eventease-api/internal/repository"
	"github.com/eventease-api/internal/service"
	"github.com/eventease-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger settings come from config, so fall back to defaults here
		log := logger.New("info", "json")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("env", cfg.App.Env).Msg("Starting EventEase API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Stats cache
	store, closeStore := newCacheStore(cfg, log)
	defer closeStore()

	// Initialize services
	services := service.NewServices(repos, store, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)
	defer router.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

// newCacheStore returns a Redis backed store when an address is configured
// and the process-local store otherwise. An unreachable Redis is not fatal;
// stats are then cached in memory.
func newCacheStore(cfg *config.Config, log zerolog.Logger) (cache.Store, func()) {
	if cfg.Cache.RedisAddr == "" {
		log.Info().Msg("Using in-memory stats cache")
		return cache.NewMemoryStore(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
		DB:   cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("Redis unavailable, using in-memory stats cache")
		_ = rdb.Close()
		return cache.NewMemoryStore(), func() {}
	}

	log.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Using Redis stats cache")
	return cache.NewRedisStore(rdb, cfg.Cache.RedisPrefix), func() { _ = rdb.Close() }
}
