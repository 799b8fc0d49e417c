package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aniketraj30/hackernews-scraper/internal/storage"
)

// dbCmd groups database subcommands.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database utilities",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the stories table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig().Database
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := storage.Open(ctx, cfg.Driver, cfg.BuildDSN(), 1)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: stories table ready\n", store.Driver())
		return nil
	},
}

var dbCountSince string

var dbCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print how many stories were stored within a trailing window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig().Database
		window, err := parseDuration("--since", dbCountSince)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := storage.Open(ctx, cfg.Driver, cfg.BuildDSN(), 1)
		if err != nil {
			return err
		}
		defer store.Close()
		n, err := store.CountSince(ctx, window)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	dbCountCmd.Flags().StringVar(&dbCountSince, "since", "5m", "trailing window")
	dbCmd.AddCommand(dbInitCmd, dbCountCmd)
	rootCmd.AddCommand(dbCmd)
}
