// Package ioschema implements the SchemaManager interface for the
// expanded_taxa schema. This is an impure I/O package that wraps GORM
// AutoMigrate plus generated DDL for the ancestry and path columns.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/lifecycle"
	"github.com/gnames/gntaxa/pkg/schema"
)

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates the expanded_taxa schema. The core columns go through
// GORM AutoMigrate; the per-rank ancestry triples and the ltree path
// column are plain idempotent DDL.
func (m *manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB); err != nil {
		return CreateSchemaError(err)
	}

	for _, stmt := range schema.AncestryColumnDDL() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return CreateSchemaError(err)
		}
	}

	// The path column is an optimization; a server without the ltree
	// extension still serves every query through recursive fallbacks.
	for _, stmt := range schema.PathColumnDDL() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			slog.Warn("ltree unavailable, skipping materialized path",
				"error", err)
			break
		}
	}
	return nil
}

// Migrate brings an existing schema up to date. All schema statements
// are idempotent, so this is Create without ceremony.
func (m *manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	return m.Create(ctx, cfg)
}
