// Package iopg implements the taxonomy service contract on top of a
// PostgreSQL expanded_taxa database via pgxpool. This is an impure I/O
// package that implements contracts defined in pkg/.
//
// Where the schema carries the materialized ltree path column the
// subtree operation uses it directly; databases built without the
// column fall back to recursive traversal transparently.
package iopg

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/parserpool"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

type pgService struct {
	pool      *pgxpool.Pool
	batchSize int
	jobs      int
	parsers   parserpool.Pool

	// pathless flips once the materialized path column turns out to be
	// absent; subsequent subtree calls skip straight to the fallback.
	pathless atomic.Bool
}

// Option configures the service during construction.
type Option func(*pgService)

// OptBatchSize caps how many ids one batched query may carry.
func OptBatchSize(n int) Option {
	return func(s *pgService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// OptJobs bounds how many batched-get chunks run concurrently.
func OptJobs(n int) Option {
	return func(s *pgService) {
		if n > 0 {
			s.jobs = n
		}
	}
}

// OptParserPool supplies a gnparser pool for canonicalizing
// scientific-name search queries.
func OptParserPool(p parserpool.Pool) Option {
	return func(s *pgService) { s.parsers = p }
}

// OptNoMaterializedPath disables the ltree fast path so subtree
// queries always take the recursive walk. It exists to compare the two
// query plans against each other on the same data.
func OptNoMaterializedPath() Option {
	return func(s *pgService) { s.pathless.Store(true) }
}

// New connects to PostgreSQL and verifies the expanded_taxa schema.
func New(
	ctx context.Context, cfg *config.DatabaseConfig, opts ...Option,
) (taxonomy.Service, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port,
		cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, connectionError(cfg, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, connectionError(cfg, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, connectionError(cfg, err)
	}

	svc := &pgService{
		pool:      pool,
		batchSize: defaultBatchSize,
		jobs:      defaultJobs,
	}
	if cfg.BatchSize > 0 {
		svc.batchSize = cfg.BatchSize
	}
	for _, opt := range opts {
		opt(svc)
	}

	if err := svc.probe(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return svc, nil
}

const (
	defaultJobs = 4
	// Stays far below the protocol's 65535 bind-parameter ceiling and
	// keeps single statements at a size the planner handles well.
	defaultBatchSize = 500
)

func (s *pgService) probe(ctx context.Context) error {
	query := fmt.Sprintf(
		`SELECT %q, %q, %q FROM %q LIMIT 1`,
		expanded.ColTaxonID, expanded.ColName, expanded.ColRankLevel,
		expanded.Table,
	)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return &taxonomy.ConnectionError{
			Backend: "postgresql",
			Err:     fmt.Errorf("schema mismatch: %w", err),
		}
	}
	rows.Close()
	return rows.Err()
}

// queryRows collects every result row into a generic column mapping.
func (s *pgService) queryRows(
	ctx context.Context, query string, args ...any,
) ([]expanded.Row, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

func collectRows(rows pgx.Rows) ([]expanded.Row, error) {
	fields := rows.FieldDescriptions()
	var res []expanded.Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(expanded.Row, len(fields))
		for i, f := range fields {
			row[f.Name] = vals[i]
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// fetchRows resolves full rows for a set of ids. Chunks run
// concurrently under the jobs bound; unknown ids are simply absent.
func (s *pgService) fetchRows(
	ctx context.Context, ids []int,
) (map[int]expanded.Row, error) {
	chunks := chunkInts(ids, s.batchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	parts := make([][]expanded.Row, len(chunks))
	for i, chunk := range chunks {
		g.Go(func() error {
			query := fmt.Sprintf(
				`SELECT * FROM %q WHERE %q = ANY($1)`,
				expanded.Table, expanded.ColTaxonID,
			)
			rows, err := s.queryRows(ctx, query, chunk)
			if err != nil {
				return s.queryError("fetch", err)
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[int]expanded.Row, len(ids))
	for _, rows := range parts {
		for _, row := range rows {
			if id, ok := row.Int(expanded.ColTaxonID); ok {
				res[id] = row
			}
		}
	}
	return res, nil
}

func (s *pgService) getRow(
	ctx context.Context, id int,
) (expanded.Row, error) {
	query := fmt.Sprintf(
		`SELECT * FROM %q WHERE %q = $1`,
		expanded.Table, expanded.ColTaxonID,
	)
	rows, err := s.queryRows(ctx, query, id)
	if err != nil {
		return nil, s.queryError("get", err)
	}
	if len(rows) == 0 {
		return nil, &taxonomy.NotFoundError{TaxonID: id}
	}
	return rows[0], nil
}

func (s *pgService) GetTaxon(
	ctx context.Context, id int,
) (*taxon.Taxon, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := row.Taxon()
	if err != nil {
		return nil, s.queryError("get", err)
	}
	return t, nil
}

func (s *pgService) GetManyBatched(
	ctx context.Context, ids []int,
) (map[int]*taxon.Taxon, error) {
	rows, err := s.fetchRows(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	res := make(map[int]*taxon.Taxon, len(rows))
	for id, row := range rows {
		t, err := row.Taxon()
		if err != nil {
			return nil, s.queryError("get_many", err)
		}
		res[id] = t
	}
	return res, nil
}

func (s *pgService) Ancestors(
	ctx context.Context, id int, includeMinor bool,
) ([]int, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := row.AncestryIDs(includeMinor)
	if err != nil {
		return nil, s.queryError("ancestors", err)
	}
	if n := len(ids); n > 0 && ids[n-1] == id {
		ids = ids[:n-1]
	}
	return ids, nil
}

func (s *pgService) Close() error {
	s.pool.Close()
	return nil
}

func (s *pgService) queryError(op string, err error) error {
	return &taxonomy.ServiceError{Op: op, Err: err}
}

func chunkInts(ids []int, size int) [][]int {
	var res [][]int
	for len(ids) > size {
		res = append(res, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		res = append(res, ids)
	}
	return res
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	res := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
