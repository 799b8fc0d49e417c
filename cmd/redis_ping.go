package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aniketraj30/hackernews-scraper/internal/redisclient"
	"github.com/aniketraj30/hackernews-scraper/internal/storage"
)

// pingCmd pings the configured Redis server.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

// lastRunCmd prints the last ingest run recorded in Redis.
var lastRunCmd = &cobra.Command{
	Use:   "last-run",
	Short: "Print the most recent ingest run recorded by any replica",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		run, ok, err := storage.NewRedisStore(rdb).LastRun(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no ingest run recorded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "started=%s candidates=%d inserted=%d failed=%d error=%q\n",
			run.StartedAt.Format(time.RFC3339), run.Candidates, run.Inserted, run.Failed, run.Error)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd, lastRunCmd)
}
