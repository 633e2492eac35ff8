package lifecycle

import (
	"context"

	"github.com/gnames/gntaxa/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate for the core columns and generated DDL for
// the per-rank ancestry columns. Schema management is idempotent -
// safe to run multiple times.
type SchemaManager interface {
	// Create creates the expanded_taxa schema: core columns via GORM
	// AutoMigrate, then the generated ancestry column triples and,
	// when the ltree extension is available, the materialized path
	// column.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates an existing schema to the latest shape. Adding
	// columns is the only migration expanded_taxa ever needs, so this
	// runs the same idempotent statements as Create.
	Migrate(ctx context.Context, cfg *config.Config) error
}
