package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aniketraj30/hackernews-scraper/internal/hub"
	"github.com/aniketraj30/hackernews-scraper/internal/redisclient"
	"github.com/aniketraj30/hackernews-scraper/internal/server"
	"github.com/aniketraj30/hackernews-scraper/internal/storage"
	"github.com/aniketraj30/hackernews-scraper/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scraper, broadcaster and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		fetchInterval, err := parseDuration("sources.hackernews.fetch_interval", cfg.Sources.HN.FetchInterval)
		if err != nil {
			return err
		}
		broadcastInterval, err := parseDuration("broadcast.interval", cfg.Broadcast.Interval)
		if err != nil {
			return err
		}
		window, err := parseDuration("broadcast.window", cfg.Broadcast.Window)
		if err != nil {
			return err
		}
		handshakeWindow, err := parseDuration("broadcast.handshake_window", cfg.Broadcast.HandshakeWindow)
		if err != nil {
			return err
		}
		writeTimeout, err := parseDuration("server.write_timeout", cfg.Server.WriteTimeout)
		if err != nil {
			return err
		}
		hnc, err := newHNClient(cfg.Sources.HN)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		store, err := openStore(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		defer store.Close()

		ingest := &worker.IngestCollector{
			Source:   hnc,
			Store:    store,
			Interval: fetchInterval,
			Timeout:  fetchInterval,
		}
		var runs server.RunSource = ingest
		if cfg.Redis.Enabled {
			rdb, err := redisclient.Connect(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()
			rs := storage.NewRedisStore(rdb)
			ingest.Lock = rs
			ingest.Recorder = rs
			runs = rs
			slog.Info("redis: ingest lock enabled", "addr", cfg.Redis.Addr)
		}

		registry := hub.NewRegistry()
		broadcaster := &worker.Broadcaster{
			Store:    store,
			Hub:      registry,
			Interval: broadcastInterval,
			Window:   window,
		}

		srv := server.New(store, registry, runs, server.Options{
			HandshakeWindow: handshakeWindow,
			DefaultWindow:   window,
			WriteTimeout:    writeTimeout,
		})
		srvErr := make(chan error, 1)
		go func() {
			err := srv.ListenAndServe(ctx, cfg.Server.ListenAddr())
			if err != nil {
				cancel()
			}
			srvErr <- err
		}()
		slog.Info(fmt.Sprintf("Server running on http://localhost:%d", cfg.Server.Port))
		slog.Info("starting workers", "source", hnc.URL(), "fetch_interval", fetchInterval, "broadcast_interval", broadcastInterval)

		mgr := worker.NewManager(ingest, broadcaster)
		if err := mgr.Start(ctx); err != nil {
			return err
		}
		return <-srvErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
