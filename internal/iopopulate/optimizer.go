package iopopulate

import (
	"context"
	"log/slog"

	"github.com/gnames/gntaxa/internal/iopg"
	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/lifecycle"
	"github.com/gnames/gntaxa/pkg/schema"
)

type optimizer struct {
	operator db.Operator
}

// NewOptimizer creates the post-load optimizer.
func NewOptimizer(op db.Operator) lifecycle.Optimizer {
	return &optimizer{operator: op}
}

// Optimize rebuilds the materialized path column from the freshly
// loaded ancestry columns, recreates the query-critical indexes, and
// refreshes planner statistics.
func (o *optimizer) Optimize(
	ctx context.Context, cfg *config.Config,
) error {
	pool := o.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	if _, err := pool.Exec(ctx, schema.PopulatePathSQL()); err != nil {
		// Databases without the ltree column still work; every query
		// has a recursive fallback.
		slog.Warn("skipping materialized path rebuild", "error", err)
	} else {
		slog.Info("materialized path rebuilt")
	}

	if err := iopg.EnsureIndexes(ctx, pool); err != nil {
		return OptimizeError(err)
	}

	if _, err := pool.Exec(ctx, "VACUUM ANALYZE expanded_taxa"); err != nil {
		return OptimizeError(err)
	}
	return nil
}
