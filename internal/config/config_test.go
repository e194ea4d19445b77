package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"IMAGE_EDIT_LOG_LEVEL", "IMAGE_EDIT_LOG_FORMAT", "IMAGE_EDIT_HTTP_ADDR",
		"IMAGE_EDIT_FILE_ROOT", "IMAGE_EDIT_FETCH_TIMEOUT", "IMAGE_EDIT_MAX_PIXELS",
		"AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Empty(t, cfg.FileRoot)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(DefaultMaxPixels), cfg.MaxPixels)
	assert.False(t, cfg.BlobEnabled())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMAGE_EDIT_LOG_LEVEL", "DEBUG")
	t.Setenv("IMAGE_EDIT_LOG_FORMAT", "json")
	t.Setenv("IMAGE_EDIT_HTTP_ADDR", ":8090")
	root := t.TempDir()
	t.Setenv("IMAGE_EDIT_FILE_ROOT", root)
	t.Setenv("IMAGE_EDIT_FETCH_TIMEOUT", "3s")
	t.Setenv("IMAGE_EDIT_MAX_PIXELS", "1000")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acct")
	t.Setenv("AZURE_STORAGE_KEY", "a2V5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8090", cfg.HTTPAddr)
	assert.Equal(t, root, cfg.FileRoot)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(1000), cfg.MaxPixels)
	assert.True(t, cfg.BlobEnabled())
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"level", "IMAGE_EDIT_LOG_LEVEL", "verbose"},
		{"format", "IMAGE_EDIT_LOG_FORMAT", "xml"},
		{"pixels", "IMAGE_EDIT_MAX_PIXELS", "-5"},
		{"half azure", "AZURE_STORAGE_ACCOUNT", "acct"},
		{"missing file root", "IMAGE_EDIT_FILE_ROOT", "/does/not/exist"},
		{"file root is a file", "IMAGE_EDIT_FILE_ROOT", "/dev/null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_BadDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMAGE_EDIT_FETCH_TIMEOUT", "soon")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
}
