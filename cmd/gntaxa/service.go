package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gntaxa/internal/iopg"
	"github.com/gnames/gntaxa/internal/iosqlite"
	"github.com/gnames/gntaxa/pkg/parserpool"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// cacheTTL bounds how long query commands keep taxa in memory. The
// dataset is read-only, so the TTL only matters for long-lived
// processes; CLI invocations never hit it.
const cacheTTL = 10 * time.Minute

// buildService constructs the taxonomy service for the selected
// backend. The caller must Close the returned service.
func buildService(ctx context.Context) (taxonomy.Service, error) {
	cfg := getConfig()
	parsers := parserpool.NewPool(cfg.JobsNumber)

	var svc taxonomy.Service
	var err error
	switch backend {
	case "pg", "postgres", "postgresql":
		svc, err = iopg.New(ctx, &cfg.Database,
			iopg.OptJobs(cfg.JobsNumber),
			iopg.OptParserPool(parsers),
		)
	case "sqlite":
		svc, err = iosqlite.New(cfg.Sqlite.Path,
			iosqlite.OptJobs(cfg.JobsNumber),
			iosqlite.OptBatchSize(cfg.Database.BatchSize),
			iosqlite.OptParserPool(parsers),
		)
	default:
		return nil, fmt.Errorf(
			"unknown backend %q (use 'sqlite' or 'pg')", backend)
	}
	if err != nil {
		return nil, err
	}

	return taxonomy.WithCache(svc, cacheTTL), nil
}

// printJSON writes v to stdout as pretty-printed JSON.
func printJSON(v any) error {
	enc := gnfmt.GNjson{Pretty: true}
	out, err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// parseIDs converts positional arguments to taxon ids.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid taxon id %q", arg)
		}
		ids[i] = id
	}
	return ids, nil
}
