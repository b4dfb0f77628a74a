package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the ThreadCraft backend service.
type Config struct {
	AppPort        int
	DatabaseURL    string
	MigrationDir   string
	LogLevel       string
	Salt           string
	SessionTTL     time.Duration
	ProgressFile   string
	TwitterBaseURL string
	TwitterTimeout time.Duration
	AllowedOrigins []string
}

// Load reads configuration from environment variables, applying sensible defaults
// for local development while allowing overrides through environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:        getInt("THREADCRAFT_PORT", 8080),
		DatabaseURL:    getString("THREADCRAFT_DATABASE_URL", ""),
		MigrationDir:   getString("THREADCRAFT_MIGRATIONS", "migrations"),
		LogLevel:       getString("THREADCRAFT_LOG_LEVEL", "info"),
		Salt:           getString("THREADCRAFT_SALT", "threadcraft-dev-salt"),
		SessionTTL:     getDuration("THREADCRAFT_SESSION_TTL", 24*time.Hour),
		ProgressFile:   getString("THREADCRAFT_PROGRESS_FILE", "data/progress.json"),
		TwitterBaseURL: getString("THREADCRAFT_TWITTER_BASE_URL", "https://api.twitter.com/2"),
		TwitterTimeout: getDuration("THREADCRAFT_TWITTER_TIMEOUT", 30*time.Second),
		AllowedOrigins: getList("THREADCRAFT_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
