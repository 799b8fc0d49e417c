package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCRAPER_SOURCES_HACKERNEWS_URL", "https://example.test/")
	t.Setenv("SCRAPER_BROADCAST_INTERVAL", "30s")
	t.Setenv("SCRAPER_REDIS_ENABLED", "true")
	t.Setenv("SCRAPER_SERVER_PORT", "8081")
	t.Setenv("DB_NAME", "fromenv")

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/", cfg.Sources.HN.URL)
	assert.Equal(t, "30s", cfg.Broadcast.Interval)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "fromenv", cfg.Database.Name)
	// untouched keys still get defaults
	assert.Equal(t, "5m", cfg.Sources.HN.FetchInterval)
	assert.Equal(t, "1m", cfg.Broadcast.Window)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite3
  name: fromfile.db
broadcast:
  interval: 2m
  window: 2m
`), 0o600))
	t.Setenv("SCRAPER_BROADCAST_INTERVAL", "45s")
	t.Setenv("PORT", "9000")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "fromfile.db", cfg.Database.Name)
	assert.Equal(t, "45s", cfg.Broadcast.Interval)
	assert.Equal(t, "2m", cfg.Broadcast.Window)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := loadConfig(viper.New(), path)
	assert.Error(t, err)
}
