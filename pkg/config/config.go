// Package config provides configuration management for gntaxa.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > gntaxa.yaml >
// defaults. File and environment loading live in internal/ioconfig.
//
// # Design Principles
//
//   - Default config (from New()) is always valid - no validation needed
//   - All mutations go through Option functions - the only way to modify
//     Config
//   - Invalid options are rejected with gn.Warn() - config remains in a
//     valid state
//
// # Environment Variables
//
// Use the GNTAXA_ prefix with underscores for nesting:
//
//	GNTAXA_DATABASE_HOST=localhost
//	GNTAXA_DATABASE_PORT=5432
//	GNTAXA_SQLITE_PATH=~/expanded_taxa.sqlite
//	GNTAXA_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete gntaxa configuration.
type Config struct {
	// Database contains PostgreSQL connection settings for the
	// server-relational backend.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Sqlite contains settings for the embedded-file backend.
	Sqlite SqliteConfig `mapstructure:"sqlite" yaml:"sqlite"`

	// Fetch contains settings for the offline dataset downloader.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Search contains name-search defaults.
	Search SearchConfig `mapstructure:"search" yaml:"search"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations: the SQLite query semaphore and the TSV loader.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories
	// reside. It must be set by the CLI during init; there is no
	// default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize caps how many taxon ids one batched-get query may carry.
	// Larger id sets are split into chunks of this size to stay under
	// the backend's statement parameter ceiling.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// SqliteConfig contains settings for the embedded-file backend.
type SqliteConfig struct {
	// Path is the expanded_taxa SQLite file. Empty means "use the
	// bundled fixture dataset", which exists for tests and offline
	// demos and must not be relied on at production scale.
	Path string `mapstructure:"path" yaml:"path"`
}

// FetchConfig contains settings for the dataset downloader.
type FetchConfig struct {
	// URL points at the published expanded_taxa.sqlite artifact. The
	// downloader falls back to the .tsv.gz sibling when the SQLite
	// artifact is absent.
	URL string `mapstructure:"url" yaml:"url"`

	// CacheDir stores downloaded artifacts between runs. Empty means
	// no caching.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// SearchConfig contains name-search defaults used by the CLI.
type SearchConfig struct {
	// Threshold is the minimum fuzzy similarity kept, 0–1.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`

	// Limit caps the number of search results.
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
	// Destination can be 'file' (to the default place), 'stderr' or
	// 'stdout'.
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gntaxa",
			SSLMode:   "disable",
			BatchSize: 500,
		},
		Fetch: FetchConfig{
			URL: "https://data.gnames.org/expanded_taxa/latest/expanded_taxa.sqlite",
		},
		Search: SearchConfig{
			Threshold: 0.8,
			Limit:     20,
		},
		Log: LogConfig{
			Format:      "text",
			Level:       "info",
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
