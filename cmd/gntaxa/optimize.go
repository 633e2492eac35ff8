package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gntaxa/internal/iodb"
	"github.com/gnames/gntaxa/internal/iopopulate"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/lifecycle"
	"github.com/spf13/cobra"
)

func getOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Rebuild the path column and query indexes",
		Long: `Apply post-load optimizations to the PostgreSQL backend:
populate the ltree path column from the ancestry columns,
recreate the query-critical indexes, and VACUUM ANALYZE the
table. Optimization always rebuilds from scratch, so it is safe
to run repeatedly.

Examples:
  gntaxa optimize`,
		RunE: runOptimize,
	}
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	start := time.Now()
	var opt lifecycle.Optimizer = iopopulate.NewOptimizer(op)
	if err := opt.Optimize(ctx, cfg); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	fmt.Printf("✓ Optimization complete in %s\n",
		gnfmt.TimeString(time.Since(start).Seconds()))
	return nil
}
