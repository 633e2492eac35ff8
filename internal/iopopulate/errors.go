package iopopulate

import (
	"fmt"

	"github.com/gnames/gn"

	"github.com/gnames/gntaxa/pkg/errcode"
)

// NotConnectedError creates an error for load operations attempted
// without a database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Load attempted without database connection",
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// LoadError creates an error for snapshot parsing or transaction
// failures during load.
func LoadError(err error) error {
	msg := `Cannot load expanded_taxa snapshot

<em>Possible causes:</em>
  - Malformed or truncated TSV file
  - Schema was not created: run <em>gntaxa schema create</em> first
  - Insufficient database permissions

<em>How to fix:</em>
  1. Verify the snapshot file opens and has a header line
  2. Create the schema before loading
  3. Check PostgreSQL logs for details`

	return &gn.Error{
		Code: errcode.FetchLoadTSVError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to load snapshot: %w", err),
	}
}

// CopyError creates an error for COPY protocol failures.
func CopyError(err error) error {
	msg := `Bulk copy into expanded_taxa failed

<em>Possible causes:</em>
  - A row does not match the table's columns
  - Connection to the database was lost mid-load

<em>How to fix:</em>
  1. Check the snapshot's header matches the schema columns
  2. Re-run the load; it is transactional and safe to repeat`

	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("copy failed: %w", err),
	}
}

// OptimizeError creates an error for post-load optimization failures.
func OptimizeError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaIndexError,
		Msg:  "Cannot optimize expanded_taxa after load",
		Vars: nil,
		Err:  fmt.Errorf("optimization failed: %w", err),
	}
}
