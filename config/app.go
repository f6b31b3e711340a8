package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
)

// AppConfig holds the service settings read from the environment
type AppConfig struct {
	Port           string
	Env            string
	RefreshDelay   time.Duration
	SnapshotTTL    time.Duration
	MetadataTTL    time.Duration
	SessionIdleTTL time.Duration
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
}

// LoadAppConfig reads AppConfig, falling back to development defaults.
// Malformed values are errors rather than silently defaulted.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port: getEnv("PORT", "8081"),
		Env:  getEnv("APP_ENV", "development"),
	}

	var err error
	if cfg.RefreshDelay, err = durationEnv("FILTER_REFRESH_DELAY", filters.DefaultRefreshDelay); err != nil {
		return nil, err
	}
	if cfg.RefreshDelay <= 0 {
		return nil, fmt.Errorf("FILTER_REFRESH_DELAY=%s: %w", cfg.RefreshDelay, filters.ErrInvalidDelay)
	}
	if cfg.SnapshotTTL, err = durationEnv("FILTER_SNAPSHOT_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MetadataTTL, err = durationEnv("FILTER_METADATA_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = durationEnv("FILTER_SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL <= 0 {
		return nil, fmt.Errorf("FILTER_SESSION_IDLE_TTL must be positive, got %s", cfg.SessionIdleTTL)
	}
	if cfg.RateWindow, err = durationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	cfg.RateLimit, err = strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	if err != nil || cfg.RateLimit < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX %q", os.Getenv("RATE_LIMIT_MAX"))
	}

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
