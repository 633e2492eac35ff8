package main

import (
	"fmt"

	"github.com/gnames/gntaxa/internal/ioconfig"
	"github.com/gnames/gntaxa/internal/iologger"
	"github.com/gnames/gntaxa/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	backend string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gntaxa",
		Short: "GNtaxa queries the expanded_taxa taxonomy",
		Long: `GNtaxa is a CLI for the expanded_taxa denormalized taxonomy: taxon
lookups, ancestry, lowest common ancestors, taxonomic distances,
subtrees, and name search.

Two backends serve the same queries:
  sqlite  an expanded_taxa SQLite file (bundled fixture when no
          path is configured); works offline
  pg      a PostgreSQL server populated with 'gntaxa load'

Lifecycle commands (PostgreSQL backend):
  - schema create: create the expanded_taxa schema
  - load:          bulk-load a TSV snapshot
  - optimize:      rebuild the path column and indexes

Configuration precedence (highest to lowest):
  1. CLI flags (--backend, etc.)
  2. Environment variables (GNTAXA_*)
  3. Config file (gntaxa.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → GNTAXA_DATABASE_HOST).

  Examples:
    GNTAXA_DATABASE_HOST            PostgreSQL host
    GNTAXA_DATABASE_PORT            PostgreSQL port
    GNTAXA_DATABASE_PASSWORD        PostgreSQL password
    GNTAXA_SQLITE_PATH              expanded_taxa SQLite file
    GNTAXA_SEARCH_LIMIT             search result cap
    GNTAXA_LOG_LEVEL               log level (debug/info/warn/error)

  See 'go doc github.com/gnames/gntaxa/pkg/config' for the full list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run if it doesn't exist.
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}

				if !exists {
					generatedPath, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// Only warn, don't fail - can use defaults.
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generatedPath)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			logDir, err := ioconfig.GetCacheDir()
			if err == nil {
				err = iologger.Init(logDir, cfg.Log, true)
			}
			if err != nil {
				fmt.Printf("Warning: could not initialize logging: %v\n", err)
			}

			switch result.Source {
			case "file":
				fmt.Printf("Using config from: %s\n", result.SourcePath)
			case "defaults+env":
				fmt.Println("Using built-in defaults with environment variable overrides")
			case "defaults":
				fmt.Println("Using built-in defaults (no config file)")
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/gntaxa/gntaxa.yaml)")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "sqlite",
		"taxonomy backend: 'sqlite' or 'pg'")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gntaxa")

	rootCmd.AddCommand(getTaxonCmd())
	rootCmd.AddCommand(getChildrenCmd())
	rootCmd.AddCommand(getAncestorsCmd())
	rootCmd.AddCommand(getLCACmd())
	rootCmd.AddCommand(getDistanceCmd())
	rootCmd.AddCommand(getSubtreeCmd())
	rootCmd.AddCommand(getSearchCmd())
	rootCmd.AddCommand(getSummaryCmd())
	rootCmd.AddCommand(getSchemaCmd())
	rootCmd.AddCommand(getLoadCmd())
	rootCmd.AddCommand(getOptimizeCmd())
	rootCmd.AddCommand(getFetchCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands).
func getConfig() *config.Config {
	return cfg
}
