// Package ioconfig provides I/O operations for loading configuration
// from files and environment variables. This is an impure package that
// handles file system operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/gnames/gntaxa/pkg/config"
)

// LoadResult contains the loaded configuration and metadata about its
// source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // path of the config file used, empty for defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and merges it over the
// built-in defaults. If configPath is empty, the default location
// ~/.config/gntaxa/gntaxa.yaml is tried; a missing file there is not
// an error. Precedence: env vars > config file > defaults.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GNTAXA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults are registered up front so AutomaticEnv knows which
	// keys to consult even when no config file exists.
	defaults := config.New()
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("database.batch_size", defaults.Database.BatchSize)
	v.SetDefault("sqlite.path", defaults.Sqlite.Path)
	v.SetDefault("fetch.url", defaults.Fetch.URL)
	v.SetDefault("fetch.cache_dir", defaults.Fetch.CacheDir)
	v.SetDefault("search.threshold", defaults.Search.Threshold)
	v.SetDefault("search.limit", defaults.Search.Limit)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.destination", defaults.Log.Destination)
	v.SetDefault("jobs_number", defaults.JobsNumber)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if defaultPath, err := GetDefaultConfigPath(); err == nil {
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			v.SetConfigFile(defaultPath)
		}
	}

	configFileRead := false
	usedConfigPath := ""
	if err := v.ReadInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		default:
			if configPath != "" || v.ConfigFileUsed() != "" {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	var loaded config.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Re-applying through Options validates every value and keeps the
	// result in a usable state even when some settings are bad.
	cfg := config.New()
	cfg.Update(loaded.ToOptions())

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// hasEnvVars checks if any GNTAXA_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "GNTAXA_") {
			return true
		}
	}
	return false
}
