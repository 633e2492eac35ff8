package expanded

import "errors"

// ErrMissingCoreColumns is returned when a row mapping lacks one of the
// taxonID, name, or rankLevel columns every expanded_taxa row must carry.
var ErrMissingCoreColumns = errors.New(
	"expanded_taxa row is missing taxonID, name, or rankLevel",
)
