package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketraj30/hackernews-scraper/internal/config"
)

func TestOpenStore_InitializesSchema(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite3", Name: filepath.Join(t.TempDir(), "stories.db")}

	store, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	n, err := store.CountSince(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenStore_SchemaFailureIsDegraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readonly.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	cfg := config.DatabaseConfig{Driver: "sqlite3", DSN: "file:" + path + "?mode=ro"}

	store, err := openStore(context.Background(), cfg)
	require.NoError(t, err, "schema failure must not abort startup")
	require.NotNil(t, store)
	t.Cleanup(func() { store.Close() })

	// no table: queries fail until the database is fixed
	_, err = store.CountSince(context.Background(), time.Minute)
	assert.Error(t, err)
}

func TestOpenStore_UnreachableDatabase(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite3", Name: filepath.Join(t.TempDir(), "missing", "stories.db")}

	store, err := openStore(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("x", "90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = parseDuration("x", "0s")
	assert.Error(t, err)
	_, err = parseDuration("x", "soon")
	assert.Error(t, err)
}
