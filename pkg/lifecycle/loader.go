package lifecycle

import (
	"context"
	"io"

	"github.com/gnames/gntaxa/pkg/config"
)

// Loader defines the interface for bulk-loading an expanded_taxa
// snapshot into PostgreSQL. Loading replaces the table contents; the
// snapshot is the unit of consistency, partial loads are rolled back.
type Loader interface {
	// Load streams a tab-separated expanded_taxa snapshot into the
	// database and returns the number of loaded rows.
	Load(ctx context.Context, cfg *config.Config, tsv io.Reader) (int64, error)
}

// Optimizer defines the interface for applying performance
// optimizations after a load. Optimization always rebuilds from
// scratch so algorithm improvements apply even when the data has not
// changed.
type Optimizer interface {
	// Optimize rebuilds the materialized path column and recreates
	// the query-critical indexes.
	Optimize(ctx context.Context, cfg *config.Config) error
}
