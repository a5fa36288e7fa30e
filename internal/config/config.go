package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Application environment
	App AppConfig

	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Session and credential settings
	Auth AuthConfig

	// Dashboard statistics cache
	Cache CacheConfig

	// Write endpoint throttling
	RateLimit RateLimitConfig

	// Attendee export settings
	Export ExportConfig

	// Logging configuration
	Log LogConfig
}

// AppConfig holds environment-wide settings
type AppConfig struct {
	Env string // "development" exposes error details in 500 responses
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// AuthConfig holds session token and password settings
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	CookieName string
	BcryptCost int
}

// CacheConfig holds the stats cache settings. An empty RedisAddr keeps the
// cache in process memory.
type CacheConfig struct {
	StatsTTL    time.Duration
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// RateLimitConfig holds per-IP token bucket settings
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	IdleTTL time.Duration
}

// ExportConfig holds attendee export settings
type ExportConfig struct {
	TimeZone string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "production"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "eventease"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", "eventease"),
			TokenTTL:   getDurationEnv("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "eventease_session"),
			BcryptCost: getIntEnv("BCRYPT_COST", 12),
		},
		Cache: CacheConfig{
			StatsTTL:    getDurationEnv("STATS_CACHE_TTL", 5*time.Minute),
			RedisAddr:   getEnv("REDIS_ADDR", ""),
			RedisDB:     getIntEnv("REDIS_DB", 0),
			RedisPrefix: getEnv("REDIS_PREFIX", "eventease:cache:"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("RATE_LIMIT_RPS", 2),
			Burst:   getIntEnv("RATE_LIMIT_BURST", 10),
			IdleTTL: getDurationEnv("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
		},
		Export: ExportConfig{
			TimeZone: getEnv("EXPORT_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Auth.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.Auth.JWTSecret = "development-only-secret"
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := time.LoadLocation(c.Export.TimeZone); err != nil {
		return fmt.Errorf("EXPORT_TIMEZONE %q: %w", c.Export.TimeZone, err)
	}
	return nil
}

// IsDevelopment reports whether diagnostic details may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Location returns the export time zone, falling back to UTC.
func (c *ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
