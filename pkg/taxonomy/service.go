// Package taxonomy defines the backend-agnostic contract of the
// taxonomy query layer. Two implementations exist: internal/iopg over a
// live PostgreSQL server and internal/iosqlite over a local SQLite
// file. Both honor the same semantics and raise the same error types
// for the same logical conditions, so callers never branch on the
// backend.
package taxonomy

import (
	"context"
	"iter"

	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxon"
)

// Service is the capability set shared by both backends. A Service owns
// its connection pool; it is safe for concurrent use and must be closed
// when no longer needed. All storage-touching methods honor context
// cancellation without poisoning the pool.
type Service interface {
	// GetTaxon returns the taxon with the given id, or a *NotFoundError.
	GetTaxon(ctx context.Context, id int) (*taxon.Taxon, error)

	// GetManyBatched resolves many ids in a bounded number of queries,
	// chunking large sets to respect backend parameter limits. Unknown
	// ids are silently omitted from the result; the batch never fails
	// because of them.
	GetManyBatched(ctx context.Context, ids []int) (map[int]*taxon.Taxon, error)

	// Children streams taxa reachable by following parent links downward
	// up to depth hops (depth 1 means direct children). Depth must be
	// positive; unbounded traversal is not supported. The sequence
	// yields no duplicates. Iteration stops early when the caller breaks
	// or ctx is cancelled.
	Children(ctx context.Context, id, depth int) iter.Seq2[*taxon.Taxon, error]

	// ChildrenList is Children materialized into a slice, for callers
	// that cannot consume a lazy sequence.
	ChildrenList(ctx context.Context, id, depth int) ([]*taxon.Taxon, error)

	// Ancestors returns ancestor ids in root→parent order, self
	// excluded. With includeMinor false only major-rank ancestors are
	// reported.
	Ancestors(ctx context.Context, id int, includeMinor bool) ([]int, error)

	// LCA returns the most specific taxon that is an ancestor of, or
	// equal to, every input taxon. With includeMinor false comparison is
	// restricted to major ranks, so the result is the lowest major-rank
	// common ancestor even when a minor-rank one is more specific.
	// Returns *NoCommonAncestorError when the inputs span disconnected
	// trees.
	LCA(ctx context.Context, ids []int, includeMinor bool) (*taxon.Taxon, error)

	// Distance counts the edges between a and b through their LCA,
	// in rank steps; minor ranks count only when includeMinor is true.
	// With inclusive true the endpoints count as traversed nodes,
	// adding one. Distance(a, a) is always zero.
	Distance(ctx context.Context, a, b int, includeMinor, inclusive bool) (int, error)

	// FetchSubtree maps every taxon in the induced subtrees of rootIDs
	// to its parent id; the given roots map to 0. Expansion is
	// iterative, so arbitrarily deep trees cannot overflow the stack.
	FetchSubtree(ctx context.Context, rootIDs []int) (map[int]int, error)

	// Subtree is FetchSubtree for a single root.
	Subtree(ctx context.Context, rootID int) (map[int]int, error)

	// SearchTaxa finds taxa by scientific or vernacular name. Matching
	// modes, scopes, fuzzy re-ranking, and result ordering are defined
	// by pkg/search; both backends return identically ordered results
	// for the same query over the same data.
	SearchTaxa(ctx context.Context, query string, opts ...search.Option) ([]search.Result, error)

	// TaxonSummary builds the root→self display trail for a taxon.
	TaxonSummary(ctx context.Context, id int, majorOnly bool) (*taxon.Summary, error)

	// Close releases the connection pool. The service must not be used
	// afterwards.
	Close() error
}
