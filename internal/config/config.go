// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrMissingSecret is returned when JWT_SECRET is unset outside dev mode.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// devSecret signs tokens when DEV_MODE is set and JWT_SECRET is not.
const devSecret = "potsettle-dev-secret-do-not-use-in-production"

// Config holds the server settings.
type Config struct {
	Port           int
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	MetricsEnabled bool
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("DEV_MODE") == "" {
			return nil, ErrMissingSecret
		}
		secret = devSecret
	}

	return &Config{
		Port:           port,
		DBPath:         getEnv("DB_PATH", "./data/potsettle.db"),
		JWTSecret:      secret,
		TokenTTL:       ttl,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: metricsEnabled,
	}, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
