package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates configuration for the backend and the form client.
type Config struct {
	// Backend.
	DatabaseURL    string
	JWTSecret      string
	Port           string
	TokenTTL       time.Duration
	RateLimitLogin RateLimitConfig

	// Bootstrap admin, applied at startup when AdminEmail is set.
	AdminName     string
	AdminEmail    string
	AdminPassword string

	// Form client.
	BaseURL         string
	RedirectDelay   time.Duration
	RequestTimeout  time.Duration
	IDTokenAudience string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		Port:            getEnv("PORT", "8080"),
		TokenTTL:        parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		AdminName:       getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:      strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		BaseURL:         getEnv("AUTHFORM_BASE_URL", "http://localhost:8080"),
		RedirectDelay:   parseDuration(getEnv("REDIRECT_DELAY", "1s"), time.Second),
		RequestTimeout:  parseDuration(getEnv("REQUEST_TIMEOUT", "15s"), 15*time.Second),
		IDTokenAudience: strings.TrimSpace(os.Getenv("AUTHFORM_ID_TOKEN_AUDIENCE")),
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_LOGIN", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN value: %w", err)
	}
	cfg.RateLimitLogin = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
