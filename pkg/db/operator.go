// Package db defines the contract for low-level database management
// used by the schema and load pipelines. The query layer does not go
// through this interface; it owns its own pool.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gnames/gntaxa/pkg/config"
)

// Operator provides connection lifecycle management and exposes the
// pgxpool.Pool so lifecycle components (schema manager, loader) can
// execute their specialized SQL internally, including bulk CopyFrom
// inserts.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for lifecycle
	// components. Components use it for transactions, bulk inserts,
	// and custom DDL.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to decide whether schema creation should prompt
	// for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema. Used when
	// overwriting an existing dataset.
	DropAllTables(ctx context.Context) error
}
