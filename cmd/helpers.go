package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/config"
	"github.com/aniketraj30/hackernews-scraper/internal/hackernews"
	"github.com/aniketraj30/hackernews-scraper/internal/storage"
)

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, value)
	}
	return d, nil
}

// openStore connects to the database and ensures the stories table.
// Only an unreachable database is an error; a schema failure is logged
// and the store is returned in degraded mode.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (*storage.SQLStore, error) {
	octx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := storage.Open(octx, cfg.Driver, cfg.BuildDSN(), cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(octx); err != nil {
		slog.Error("db: error initializing stories table", "driver", cfg.Driver, "error", err)
	} else {
		slog.Info("db: stories table initialized", "driver", cfg.Driver)
	}
	return store, nil
}

func newHNClient(cfg config.HackerNewsConfig) (*hackernews.Client, error) {
	timeout, err := parseDuration("sources.hackernews.timeout", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return hackernews.NewClient(cfg.URL, cfg.UserAgent, timeout), nil
}
