package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 7, cfg.Retention.CacheDays)
	assert.Equal(t, 200, cfg.Limits.MaxCachedRestaurants)
	assert.Equal(t, 50, cfg.Limits.MaxCacheSizeMB)
	assert.Equal(t, 200, cfg.Thumbnails.SizePx)
	assert.True(t, cfg.Thumbnails.WifiOnly)
	assert.Equal(t, 24, cfg.Repeats.CooldownHours)
	assert.Equal(t, "cheapeats.db", cfg.Storage.SQLiteFile)
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("limits:\n  max_cached_restaurants: 75\nthumbnails:\n  wifi_only: false\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Limits.MaxCachedRestaurants)
	assert.False(t, cfg.Thumbnails.WifiOnly)
	// Untouched sections keep defaults.
	assert.Equal(t, 7, cfg.Retention.CacheDays)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrCreateAt_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Limits.MaxCachedRestaurants)

	// File now exists and loads back identically.
	reloaded, err := LoadOrCreateAt(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/cheapeats"

	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cheapeats/cheapeats.db", path)

	thumbs, err := cfg.ThumbnailPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cheapeats/thumbnails", thumbs)
}
