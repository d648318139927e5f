package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	// NotifyURLs are shoutrrr destinations for task due-date reminders.
	NotifyURLs []string
	// ReminderCron is the schedule for the remediation reminder scan.
	ReminderCron string
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("AT_ENV", "development"),
		HTTPPort:     getEnv("AT_HTTP_PORT", "8080"),
		DatabasePath: getEnv("AT_DB_PATH", filepath.Join("data", "audittrail.db")),
		NotifyURLs:   splitList(os.Getenv("AT_NOTIFY_URLS")),
		ReminderCron: getEnv("AT_REMINDER_CRON", "@hourly"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
