package iopg

import (
	"errors"
	"fmt"

	"github.com/gnames/gnlib"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// ConnectError is returned when the PostgreSQL connection cannot be
// established or the schema does not look like expanded_taxa.
type ConnectError struct {
	error
	gnlib.MessageBase
}

func connectionError(cfg *config.DatabaseConfig, err error) error {
	msgBase := gnlib.MessageBase{
		Msg: `<title>Cannot Connect to PostgreSQL</title>
<warn>Failed to reach the expanded_taxa database.</warn>

<em>How to fix:</em>
  1. Check that PostgreSQL is running: <em>pg_isready -h %s -p %d</em>
  2. Verify credentials and database name in <em>gntaxa.yaml</em>
  3. Check that the database was loaded: <em>psql -d %s -c "\d expanded_taxa"</em>
`,
		Vars: []any{cfg.Host, cfg.Port, cfg.Database},
	}

	inner := ConnectError{
		error: fmt.Errorf("postgresql connection to %s:%d/%s failed: %w",
			cfg.Host, cfg.Port, cfg.Database, err),
		MessageBase: msgBase,
	}
	return &taxonomy.ConnectionError{Backend: "postgresql", Err: inner}
}

// undefinedColumn reports whether err is the server telling us a
// referenced column does not exist (SQLSTATE 42703).
func undefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}
