package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_URL", "PORT", "JWT_SECRET",
		"JWT_EXPIRATION_HOURS", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "REQUEST_TIMEOUT_SECONDS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "camps.db", cfg.DataSource())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Len(t, cfg.Warnings, 1)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://aid@localhost/camps?sslmode=disable")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://aid@localhost/camps?sslmode=disable", cfg.DataSource())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadConfigInvalidIntegerFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "REQUEST_TIMEOUT_SECONDS")
}

func TestLoadConfigRejectsBadDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigPostgresNeedsURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "postgres")

	_, err := LoadConfig()
	assert.Error(t, err)
}
