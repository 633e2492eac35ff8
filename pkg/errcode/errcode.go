// Package errcode enumerates machine-readable error codes for gntaxa.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBQueryError

	// Taxonomy errors
	TaxonNotFoundError
	NoCommonAncestorError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaDropError
	SchemaIndexError

	// Fetch errors
	FetchDownloadError
	FetchCacheError
	FetchLoadTSVError
	FetchBadArchiveError
)
