// Package iotesting provides shared test utilities for integration
// tests. This is an internal package for test infrastructure only.
package iotesting

import (
	"github.com/gnames/gntaxa/internal/ioconfig"
	"github.com/gnames/gntaxa/pkg/config"
)

// TestDatabaseName is the database name used for all PostgreSQL
// integration tests, so tests never accidentally run against a
// production database.
const TestDatabaseName = "gntaxa_test"

// GetTestConfig returns a configuration suitable for integration
// tests. It loads the standard config (from file, environment, or
// defaults) and forces the database name to TestDatabaseName.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test in short mode")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	var cfg *config.Config
	result, err := ioconfig.Load("")
	if err != nil {
		cfg = config.New()
	} else {
		cfg = result.Config
	}

	cfg.Database.Database = TestDatabaseName
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration, for
// tests that do not need the full Config.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}
