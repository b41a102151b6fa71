package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const (
	defaultPort               = "8080"
	defaultDatabasePath       = "camps.db"
	defaultJWTExpirationHours = 24
	defaultRequestTimeout     = 60
	defaultCORSOrigins        = "http://localhost:5173"

	// DevJWTSecret signs tokens when JWT_SECRET is unset. Never use it in production.
	DevJWTSecret = "dev-insecure-jwt-secret"
)

type Config struct {
	// database
	DatabaseDriver string
	DatabasePath   string // sqlite file
	DatabaseURL    string // postgres DSN

	// http
	Port               string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	// auth
	JWTSecret     string
	JWTExpiration time.Duration

	LogLevel string

	// Warnings collects fallbacks taken while loading, logged once the logger exists.
	Warnings []string
}

// DataSource returns the driver-specific connection string.
func (c Config) DataSource() string {
	if c.DatabaseDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s '%s', using default %d", envVar, valStr, defaultVal))
		return defaultVal
	}
	return val
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func LoadConfig() (Config, error) {
	var cfg Config

	cfg.DatabaseDriver = strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite))
	switch cfg.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER '%s' (want %s or %s)", cfg.DatabaseDriver, DriverSQLite, DriverPostgres)
	}

	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", defaultDatabasePath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is %s", DriverPostgres)
	}

	cfg.Port = getEnvOrDefault("PORT", defaultPort)
	cfg.CORSAllowedOrigins = splitOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	cfg.RequestTimeout = time.Duration(cfg.getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)) * time.Second

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET is not set, using the development secret")
	}
	cfg.JWTExpiration = time.Duration(cfg.getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours)) * time.Hour

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	return cfg, nil
}
