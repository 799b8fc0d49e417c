package main

import (
	"os"

	"github.com/aniketraj30/hackernews-scraper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
