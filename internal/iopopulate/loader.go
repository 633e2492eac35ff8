// Package iopopulate implements the bulk-load pipeline that brings an
// expanded_taxa snapshot into PostgreSQL. This is an impure I/O
// package that implements contracts defined in pkg/.
//
// Loading uses the binary COPY protocol, which is an order of
// magnitude faster than batched INSERTs for the tens of millions of
// rows a full snapshot carries.
package iopopulate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"

	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/lifecycle"
)

type loader struct {
	operator db.Operator
}

// NewLoader creates the expanded_taxa bulk loader.
func NewLoader(op db.Operator) lifecycle.Loader {
	return &loader{operator: op}
}

// Load streams a tab-separated snapshot into the expanded_taxa table.
// The table is truncated first; the whole load runs in one
// transaction, so a failed load leaves the previous contents intact.
func (l *loader) Load(
	ctx context.Context, cfg *config.Config, tsv io.Reader,
) (int64, error) {
	pool := l.operator.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	scanner := bufio.NewScanner(tsv)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	if !scanner.Scan() {
		return 0, LoadError(fmt.Errorf("input has no header line"))
	}
	header := strings.Split(scanner.Text(), "\t")
	if err := checkHeader(header); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, LoadError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(
		`TRUNCATE TABLE %q`, expanded.Table,
	)); err != nil {
		return 0, LoadError(err)
	}

	bar := pb.New64(0).Set(pb.Bytes, false)
	bar.Start()
	defer bar.Finish()

	src := &tsvSource{scanner: scanner, header: header, bar: bar}
	n, err := tx.CopyFrom(
		ctx, pgx.Identifier{expanded.Table}, header, src,
	)
	if err != nil {
		return 0, CopyError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, LoadError(err)
	}

	slog.Info("expanded_taxa load complete",
		"rows", humanize.Comma(n))
	return n, nil
}

// checkHeader verifies the core columns the query layer depends on
// are present in the snapshot.
func checkHeader(header []string) error {
	required := []string{
		expanded.ColTaxonID,
		expanded.ColName,
		expanded.ColRank,
		expanded.ColRankLevel,
	}
	have := make(map[string]struct{}, len(header))
	for _, col := range header {
		have[col] = struct{}{}
	}
	for _, col := range required {
		if _, ok := have[col]; !ok {
			return LoadError(
				fmt.Errorf("snapshot misses required column %q", col))
		}
	}
	return nil
}

// tsvSource adapts the TSV scanner to the pgx.CopyFromSource
// interface, converting fields to the column types as rows stream
// through.
type tsvSource struct {
	scanner *bufio.Scanner
	header  []string
	bar     *pb.ProgressBar
	row     []any
	err     error
}

func (s *tsvSource) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.scanner.Scan() {
		s.err = s.scanner.Err()
		return false
	}
	fields := strings.Split(s.scanner.Text(), "\t")
	s.row = make([]any, len(s.header))
	for i, col := range s.header {
		if i >= len(fields) || fields[i] == "" {
			s.row[i] = nil
			continue
		}
		v, err := convertField(col, fields[i])
		if err != nil {
			s.err = err
			return false
		}
		s.row[i] = v
	}
	if s.bar != nil {
		s.bar.Increment()
	}
	return true
}

func (s *tsvSource) Values() ([]any, error) { return s.row, s.err }
func (s *tsvSource) Err() error             { return s.err }

// convertField maps a TSV field onto the Go type pgx encodes for the
// column. Numeric columns are recognized by name suffix, the same
// convention the DDL generator uses.
func convertField(col, field string) (any, error) {
	switch {
	case strings.HasSuffix(col, "taxonID"):
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		return v, nil
	case strings.HasSuffix(col, "rankLevel"):
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		return v, nil
	case col == expanded.ColTaxonActive:
		switch strings.ToLower(field) {
		case "t", "true", "1":
			return true, nil
		default:
			return false, nil
		}
	default:
		return field, nil
	}
}
