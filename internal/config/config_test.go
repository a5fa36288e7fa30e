package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "eventease", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL)
	assert.Equal(t, "eventease_session", cfg.Auth.CookieName)
	assert.Equal(t, "UTC", cfg.Export.TimeZone)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("STATS_CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("EXPORT_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTL)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "Asia/Kolkata", cfg.Export.Location().String())
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DevelopmentSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate_BadTimeZone(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", Name: "db"},
		Auth:     AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
		Export:   ExportConfig{TimeZone: "Mars/Olympus"},
	}
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.GetDSN())
}
