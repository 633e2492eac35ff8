// Package iofetch obtains expanded_taxa datasets for offline use: it
// downloads published artifacts and loads TSV snapshots into a local
// SQLite database. This is an impure I/O package.
package iofetch

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite" // pure Go SQLite driver (no CGo)

	"github.com/gnames/gntaxa/pkg/expanded"
)

// IfExists selects what LoadTSV does when the expanded_taxa table is
// already present in the target database.
type IfExists string

const (
	// Replace drops and recreates the table.
	Replace IfExists = "replace"
	// Append keeps existing rows and adds the new ones.
	Append IfExists = "append"
	// Fail aborts the load.
	Fail IfExists = "fail"
)

// insertBatch is how many rows go into one transaction.
const insertBatch = 5_000

// LoadFile loads a TSV snapshot into the SQLite database at dbPath,
// creating the file when needed, and ensures the query indexes. It
// returns the number of rows inserted.
func LoadFile(
	ctx context.Context, dbPath string, tsv io.Reader, mode IfExists,
) (int64, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, OpenTargetError(dbPath, err)
	}
	defer db.Close()

	n, err := LoadTSV(ctx, db, tsv, mode)
	if err != nil {
		return 0, err
	}
	if err := EnsureIndexes(ctx, db); err != nil {
		return 0, err
	}
	return n, nil
}

// LoadTSV streams a tab-separated expanded_taxa snapshot into db. The
// table is created from the header line; empty fields become NULL.
func LoadTSV(
	ctx context.Context, db *sql.DB, r io.Reader, mode IfExists,
) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	if !scanner.Scan() {
		return 0, LoadTSVError(fmt.Errorf("input has no header line"))
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 4 {
		return 0, LoadTSVError(
			fmt.Errorf("header has only %d columns", len(header)))
	}

	exists, err := tableExists(ctx, db)
	if err != nil {
		return 0, err
	}
	if exists {
		switch mode {
		case Append:
			// keep rows
		case Replace:
			if _, err := db.ExecContext(ctx,
				`DROP TABLE "`+expanded.Table+`"`); err != nil {
				return 0, LoadTSVError(err)
			}
			exists = false
		default:
			return 0, LoadTSVError(
				fmt.Errorf("table %s already exists", expanded.Table))
		}
	}
	if !exists {
		if _, err := db.ExecContext(ctx, createDDL(header)); err != nil {
			return 0, LoadTSVError(err)
		}
	}

	insertSQL := insertStatement(header)
	var total int64
	args := make([]any, len(header))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, LoadTSVError(err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return 0, LoadTSVError(err)
	}

	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		for i := range header {
			if i < len(fields) && fields[i] != "" {
				args[i] = fields[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return 0, LoadTSVError(err)
		}
		total++

		if total%insertBatch == 0 {
			stmt.Close()
			if err := tx.Commit(); err != nil {
				return 0, LoadTSVError(err)
			}
			slog.Debug("Loaded rows", "count", humanize.Comma(total))
			if tx, err = db.BeginTx(ctx, nil); err != nil {
				return 0, LoadTSVError(err)
			}
			if stmt, err = tx.PrepareContext(ctx, insertSQL); err != nil {
				tx.Rollback()
				return 0, LoadTSVError(err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		stmt.Close()
		tx.Rollback()
		return 0, LoadTSVError(err)
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return 0, LoadTSVError(err)
	}

	slog.Info("TSV load complete", "rows", humanize.Comma(total))
	return total, nil
}

// EnsureIndexes creates the indexes the embedded backend's queries
// rely on. The statements are idempotent.
func EnsureIndexes(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_parent
			ON "expanded_taxa" ("immediateAncestor_taxonID")`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_ranklevel
			ON "expanded_taxa" ("rankLevel")`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_name_lower
			ON "expanded_taxa" (LOWER("name"))`,
		`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_common_lower
			ON "expanded_taxa" (LOWER("commonName"))`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return LoadTSVError(err)
		}
	}
	return nil
}

func tableExists(ctx context.Context, db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name = ?`, expanded.Table).Scan(&name)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, LoadTSVError(err)
	default:
		return true, nil
	}
}

// createDDL builds the CREATE TABLE statement from the TSV header.
// Column types come from the schema contract, not from data sniffing:
// id, level, and flag columns are INTEGER, everything else TEXT.
func createDDL(header []string) string {
	cols := make([]string, len(header))
	for i, col := range header {
		typ := "TEXT"
		switch {
		case strings.HasSuffix(col, "taxonID"),
			col == expanded.ColTaxonActive:
			typ = "INTEGER"
		case strings.HasSuffix(col, "rankLevel"):
			// rank levels carry the fractional half-levels 33.5, 34.5
			typ = "REAL"
		}
		cols[i] = fmt.Sprintf("%q %s", col, typ)
	}
	return fmt.Sprintf("CREATE TABLE %q (%s)",
		expanded.Table, strings.Join(cols, ", "))
}

func insertStatement(header []string) string {
	quoted := make([]string, len(header))
	marks := make([]string, len(header))
	for i, col := range header {
		quoted[i] = fmt.Sprintf("%q", col)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		expanded.Table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
}
