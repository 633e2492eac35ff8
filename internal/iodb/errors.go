package iodb

import (
	"fmt"

	"github.com/gnames/gn"

	"github.com/gnames/gntaxa/pkg/errcode"
)

// ConnectionError creates an error for database connection failures.
func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d/%s</em>

<em>How to fix:</em>
  1. Check that PostgreSQL is running: <em>pg_isready -h %s -p %d</em>
  2. Verify user <em>%s</em> and password in <em>gntaxa.yaml</em>
  3. Create the database if needed: <em>createdb %s</em>`

	vars := []any{host, port, database, host, port, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("connection to %s:%d/%s failed: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for operations attempted without
// a database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError creates an error for table metadata query failures.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  "Cannot query table metadata",
		Vars: nil,
		Err:  fmt.Errorf("table metadata query failed: %w", err),
	}
}

// DropTableError creates an error for DROP TABLE failures.
func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  "Cannot drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
