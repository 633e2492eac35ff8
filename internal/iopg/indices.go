package iopg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureIndexes creates the query-critical indexes on expanded_taxa.
// Every statement uses IF NOT EXISTS, so the helper is safe to run on
// each startup or after a fresh load. Trigram indexes speed up
// substring search dramatically but need the pg_trgm extension; when
// the extension cannot be installed they are skipped with a warning
// and substring search falls back to sequential scans.
func EnsureIndexes(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_parent
			ON expanded_taxa ("immediateAncestor_taxonID")`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_rank_level
			ON expanded_taxa ("rankLevel")`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_name_lower
			ON expanded_taxa (LOWER("name"))`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_common_lower
			ON expanded_taxa (LOWER("commonName"))`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS pg_trgm")
	if err != nil {
		slog.Warn("pg_trgm unavailable, skipping trigram indexes",
			"error", err)
		return nil
	}

	trigram := []string{
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_name_trgm
			ON expanded_taxa USING gin ("name" gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_common_trgm
			ON expanded_taxa USING gin ("commonName" gin_trgm_ops)`,
	}
	for _, stmt := range trigram {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating trigram index: %w", err)
		}
	}
	slog.Info("expanded_taxa indexes are in place")
	return nil
}

// EnsureIndexes lets callers holding only the service contract run the
// index helper without reaching into the pool.
func (s *pgService) EnsureIndexes(ctx context.Context) error {
	return EnsureIndexes(ctx, s.pool)
}
