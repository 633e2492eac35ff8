// Package iosqlite implements the taxonomy service contract against a
// local expanded_taxa SQLite file, fully offline. The underlying engine
// is blocking; a weighted semaphore bounds how many queries run at
// once, so a shared service instance cannot stampede the file while
// callers keep a non-blocking, context-aware surface.
package iosqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/sync/semaphore"
	_ "modernc.org/sqlite" // pure Go SQLite driver (no CGo)

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/parserpool"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

type sqliteService struct {
	db        *sql.DB
	sem       *semaphore.Weighted
	batchSize int
	parsers   parserpool.Pool
}

// Option configures the service during construction.
type Option func(*sqliteService)

// OptJobs bounds the number of concurrently executing queries. The
// connection cap set at open time stays as is; in-memory databases in
// particular must keep a single connection.
func OptJobs(n int) Option {
	return func(s *sqliteService) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// OptBatchSize caps how many ids one IN clause may carry.
func OptBatchSize(n int) Option {
	return func(s *sqliteService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// OptParserPool supplies a gnparser pool for canonicalizing
// scientific-name search queries.
func OptParserPool(p parserpool.Pool) Option {
	return func(s *sqliteService) { s.parsers = p }
}

// New opens the expanded_taxa SQLite database at path. An empty path
// loads the small bundled fixture dataset into memory; that mode
// exists for tests and offline demos, not production-scale use.
func New(path string, opts ...Option) (taxonomy.Service, error) {
	var db *sql.DB
	var err error

	if path == "" {
		db, err = openFixture()
		if err != nil {
			return nil, err
		}
	} else {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, &taxonomy.ConnectionError{
				Backend: "sqlite", Err: statErr,
			}
		}
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, &taxonomy.ConnectionError{Backend: "sqlite", Err: err}
		}
		db.SetMaxOpenConns(defaultJobs)
	}

	svc := &sqliteService{
		db:        db,
		sem:       semaphore.NewWeighted(int64(defaultJobs)),
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}

	// Fail on open, not first query, when the file is not an
	// expanded_taxa database.
	if err := svc.probe(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return svc, nil
}

const (
	defaultJobs = 4
	// SQLite's default variable ceiling is 999; stay well under it.
	defaultBatchSize = 500
)

// probe verifies the expanded_taxa table and its core columns exist.
func (s *sqliteService) probe(ctx context.Context) error {
	_, err := s.queryRows(ctx, fmt.Sprintf(
		`SELECT %q, %q, %q FROM %q LIMIT 1`,
		expanded.ColTaxonID, expanded.ColName, expanded.ColRankLevel,
		expanded.Table,
	))
	if err != nil {
		return &taxonomy.ConnectionError{
			Backend: "sqlite",
			Err:     fmt.Errorf("schema mismatch: %w", err),
		}
	}
	return nil
}

// queryRows runs a query under the concurrency semaphore and returns
// every result row as a generic column mapping.
func (s *sqliteService) queryRows(
	ctx context.Context, query string, args ...any,
) ([]expanded.Row, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var res []expanded.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(expanded.Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// fetchRows resolves full rows for a set of ids, chunked under the
// batch ceiling. Unknown ids are simply absent from the result.
func (s *sqliteService) fetchRows(
	ctx context.Context, ids []int,
) (map[int]expanded.Row, error) {
	res := make(map[int]expanded.Row, len(ids))
	for chunk := range slices.Chunk(ids, s.batchSize) {
		query := fmt.Sprintf(
			`SELECT * FROM %q WHERE %q IN (%s)`,
			expanded.Table, expanded.ColTaxonID, placeholders(len(chunk)),
		)
		rows, err := s.queryRows(ctx, query, intArgs(chunk)...)
		if err != nil {
			return nil, s.queryError("fetch", err)
		}
		for _, row := range rows {
			if id, ok := row.Int(expanded.ColTaxonID); ok {
				res[id] = row
			}
		}
	}
	return res, nil
}

// getRow returns the single row for id, or *taxonomy.NotFoundError.
func (s *sqliteService) getRow(
	ctx context.Context, id int,
) (expanded.Row, error) {
	rows, err := s.queryRows(ctx, fmt.Sprintf(
		`SELECT * FROM %q WHERE %q = ?`,
		expanded.Table, expanded.ColTaxonID,
	), id)
	if err != nil {
		return nil, s.queryError("get", err)
	}
	if len(rows) == 0 {
		return nil, &taxonomy.NotFoundError{TaxonID: id}
	}
	return rows[0], nil
}

func (s *sqliteService) GetTaxon(
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

func (s *sqliteService) GetManyBatched(
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

func (s *sqliteService) Ancestors(
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
	// The chain is root→self inclusive; the contract excludes self.
	if n := len(ids); n > 0 && ids[n-1] == id {
		ids = ids[:n-1]
	}
	return ids, nil
}

func (s *sqliteService) Close() error {
	return s.db.Close()
}

func (s *sqliteService) queryError(op string, err error) error {
	return &taxonomy.ServiceError{Op: op, Err: err}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func intArgs(ids []int) []any {
	res := make([]any, len(ids))
	for i, id := range ids {
		res[i] = id
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
