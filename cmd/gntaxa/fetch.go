package main

import (
	"context"
	"fmt"

	"github.com/gnames/gntaxa/internal/iofetch"
	"github.com/spf13/cobra"
)

var fetchDest string

func getFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the expanded_taxa SQLite dataset",
		Long: `Download the published expanded_taxa SQLite artifact from the
configured URL. When the SQLite artifact is absent the .tsv.gz
sibling is downloaded and loaded instead. Downloads are cached
in fetch.cache_dir when it is set.

The destination defaults to sqlite.path from the configuration.

Examples:
  gntaxa fetch
  gntaxa fetch --dest ./expanded_taxa.sqlite`,
		RunE: runFetch,
	}
	cmd.Flags().StringVar(&fetchDest, "dest", "",
		"destination file (default: sqlite.path from config)")
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	dest := fetchDest
	if dest == "" {
		dest = cfg.Sqlite.Path
	}
	if dest == "" {
		dest = "expanded_taxa.sqlite"
	}

	fmt.Printf("Fetching %s\n", cfg.Fetch.URL)
	err := iofetch.Fetch(ctx, cfg.Fetch.URL, dest, cfg.Fetch.CacheDir)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Dataset saved to %s\n", dest)
	if cfg.Sqlite.Path != dest {
		fmt.Printf("Set sqlite.path to %s to use it\n", dest)
	}
	return nil
}
