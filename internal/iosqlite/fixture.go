package iosqlite

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"

	"github.com/gnames/gntaxa/internal/iofetch"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// A tiny Hymenoptera slice of expanded_taxa, enough for tests and the
// zero-setup demo mode.
//
//go:embed testdata/expanded_taxa_sample.tsv
var fixtureTSV []byte

// openFixture loads the bundled dataset into an in-memory database.
// The pool is pinned to one connection: each :memory: connection would
// otherwise open its own empty database.
func openFixture() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, &taxonomy.ConnectionError{Backend: "sqlite", Err: err}
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	_, err = iofetch.LoadTSV(ctx, db, bytes.NewReader(fixtureTSV),
		iofetch.Replace)
	if err != nil {
		db.Close()
		return nil, &taxonomy.ConnectionError{Backend: "sqlite", Err: err}
	}
	if err := iofetch.EnsureIndexes(ctx, db); err != nil {
		db.Close()
		return nil, &taxonomy.ConnectionError{Backend: "sqlite", Err: err}
	}
	return db, nil
}
