// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting of the binaries. Zero values never reach the
// caller: LoadFromEnv fills defaults and validates.
type Config struct {
	LogLevel  string
	LogFormat string

	// HTTPAddr enables the HTTP API when set; otherwise the MCP server
	// speaks JSON-RPC on stdio.
	HTTPAddr string

	// FileRoot is the directory local paths must stay inside when serving
	// HTTP. Empty disables local files in HTTP mode.
	FileRoot string

	FetchTimeout time.Duration
	MaxPixels    int64

	AzureAccount string
	AzureKey     string
}

// Defaults.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxPixels    = 64 * 1024 * 1024
)

// BlobEnabled reports whether Azure blob locations can be opened.
func (c *Config) BlobEnabled() bool {
	return c.AzureAccount != "" && c.AzureKey != ""
}

// LoadFromEnv builds a Config from IMAGE_EDIT_* and AZURE_STORAGE_* variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel:     strings.ToLower(getEnvOrDefault("IMAGE_EDIT_LOG_LEVEL", DefaultLogLevel)),
		LogFormat:    strings.ToLower(getEnvOrDefault("IMAGE_EDIT_LOG_FORMAT", DefaultLogFormat)),
		HTTPAddr:     strings.TrimSpace(os.Getenv("IMAGE_EDIT_HTTP_ADDR")),
		FileRoot:     strings.TrimSpace(os.Getenv("IMAGE_EDIT_FILE_ROOT")),
		FetchTimeout: parseDurationOrDefault("IMAGE_EDIT_FETCH_TIMEOUT", DefaultFetchTimeout),
		MaxPixels:    parseIntOrDefault("IMAGE_EDIT_MAX_PIXELS", DefaultMaxPixels),
		AzureAccount: strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureKey:     strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid IMAGE_EDIT_LOG_LEVEL: %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid IMAGE_EDIT_LOG_FORMAT: %q", cfg.LogFormat)
	}
	if cfg.MaxPixels <= 0 {
		return nil, fmt.Errorf("IMAGE_EDIT_MAX_PIXELS must be > 0 (got %d)", cfg.MaxPixels)
	}
	if cfg.FileRoot != "" {
		info, err := os.Stat(cfg.FileRoot)
		if err != nil {
			return nil, fmt.Errorf("invalid IMAGE_EDIT_FILE_ROOT: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("invalid IMAGE_EDIT_FILE_ROOT: %s is not a directory", cfg.FileRoot)
		}
	}
	if (cfg.AzureAccount == "") != (cfg.AzureKey == "") {
		return nil, fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
