// Package config provides configuration for the orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Streaming settings
	TokenDelay          time.Duration // pause between emitted tokens
	StreamChunkInterval int           // log a stream_chunk trace step every Nth token

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", "file:orchestrator.db?cache=shared&mode=rwc"),
		TokenDelay:          time.Duration(getEnvInt("TOKEN_DELAY_MS", 20)) * time.Millisecond,
		StreamChunkInterval: getEnvInt("STREAM_CHUNK_INTERVAL", 10),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	if cfg.StreamChunkInterval < 1 {
		cfg.StreamChunkInterval = 1
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
