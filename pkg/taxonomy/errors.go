package taxonomy

import (
	"fmt"
	"sort"
)

// NotFoundError is returned when a requested taxon id has no row in the
// active backend.
type NotFoundError struct {
	TaxonID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("taxon %d not found", e.TaxonID)
}

// ConnectionError is returned when a backend cannot be reached, opened,
// or queried reliably. It always wraps the underlying driver fault.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// NoCommonAncestorError is returned by LCA and Distance when the input
// taxa live in disconnected trees and no common ancestor exists.
type NoCommonAncestorError struct {
	TaxonIDs []int
}

func (e *NoCommonAncestorError) Error() string {
	ids := append([]int(nil), e.TaxonIDs...)
	sort.Ints(ids)
	return fmt.Sprintf("no common ancestor for taxa %v", ids)
}

// ServiceError wraps an unexpected backend fault, preserving the
// original error for diagnostics.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("taxonomy %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
