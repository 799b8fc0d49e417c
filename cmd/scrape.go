package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aniketraj30/hackernews-scraper/worker"
)

// scrapeCmd runs a single ingest cycle and exits.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape-and-store cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		hnc, err := newHNClient(cfg.Sources.HN)
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := openStore(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		defer store.Close()

		w := &worker.IngestCollector{Source: hnc, Store: store}
		run, err := w.RunOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "candidates=%d inserted=%d failed=%d\n", run.Candidates, run.Inserted, run.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
