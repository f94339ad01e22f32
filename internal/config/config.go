package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort        int
	SnapshotPath      string // sqlite file backing the durable snapshot
	MediaPath         string // base path for uploaded media blobs
	SnapshotDebounce  time.Duration
	SnapshotFlushCron string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	debounce, err := time.ParseDuration(getEnv("SNAPSHOT_DEBOUNCE", "2s"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:        port,
		SnapshotPath:      getEnv("SNAPSHOT_PATH", "./fanvault.db"),
		MediaPath:         getEnv("MEDIA_PATH", "./media"),
		SnapshotDebounce:  debounce,
		SnapshotFlushCron: getEnv("SNAPSHOT_FLUSH_CRON", "*/5 * * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
