package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/aniketraj30/hackernews-scraper/internal/hackernews"
)

var parseBase string

var debugParseCmd = &cobra.Command{
	Use:   "debug-parse <page.html>",
	Short: "Debug: parse a saved listing page and print the candidates as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var base *url.URL
		if parseBase != "" {
			if base, err = url.Parse(parseBase); err != nil {
				return fmt.Errorf("invalid --base: %w", err)
			}
		}
		items, err := hackernews.ParsePage(f, base)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "candidates: %d\n", len(items))
		return nil
	},
}

func init() {
	debugParseCmd.Flags().StringVar(&parseBase, "base", hackernews.DefaultURL, "base URL for resolving relative links (empty keeps them as-is)")
	rootCmd.AddCommand(debugParseCmd)
}
