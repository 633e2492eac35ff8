package iosqlite

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// Children streams descendants of id breadth-first down to depth hops.
// Each taxon is yielded at most once even if the parent links form an
// unexpected cycle.
func (s *sqliteService) Children(
	ctx context.Context, id, depth int,
) iter.Seq2[*taxon.Taxon, error] {
	return func(yield func(*taxon.Taxon, error) bool) {
		if depth < 1 {
			yield(nil, &taxonomy.ServiceError{
				Op:  "children",
				Err: fmt.Errorf("depth must be positive, got %d", depth),
			})
			return
		}
		seen := map[int]bool{id: true}
		frontier := []int{id}
		for hop := 0; hop < depth && len(frontier) > 0; hop++ {
			var next []int
			for chunk := range slices.Chunk(frontier, s.batchSize) {
				query := fmt.Sprintf(
					`SELECT * FROM %q WHERE %q IN (%s) ORDER BY %q`,
					expanded.Table, expanded.ColParentID,
					placeholders(len(chunk)), expanded.ColTaxonID,
				)
				rows, err := s.queryRows(ctx, query, intArgs(chunk)...)
				if err != nil {
					yield(nil, s.queryError("children", err))
					return
				}
				for _, row := range rows {
					t, err := row.Taxon()
					if err != nil {
						yield(nil, s.queryError("children", err))
						return
					}
					if seen[t.ID] {
						continue
					}
					seen[t.ID] = true
					if !yield(t, nil) {
						return
					}
					next = append(next, t.ID)
				}
			}
			frontier = next
		}
	}
}

func (s *sqliteService) ChildrenList(
	ctx context.Context, id, depth int,
) ([]*taxon.Taxon, error) {
	var res []*taxon.Taxon
	for t, err := range s.Children(ctx, id, depth) {
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// FetchSubtree maps every descendant of the given roots to its parent
// id. Roots themselves appear in the map with parent 0, which makes
// tree reconstruction from the flat map unambiguous.
func (s *sqliteService) FetchSubtree(
	ctx context.Context, rootIDs []int,
) (map[int]int, error) {
	roots := dedupe(rootIDs)
	res := make(map[int]int)

	// Only roots that actually exist are anchored.
	existing, err := s.selectParents(ctx, expanded.ColTaxonID, roots)
	if err != nil {
		return nil, err
	}
	frontier := make([]int, 0, len(existing))
	for id := range existing {
		res[id] = 0
		frontier = append(frontier, id)
	}

	for len(frontier) > 0 {
		links, err := s.selectParents(ctx, expanded.ColParentID, frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for id, parent := range links {
			if _, ok := res[id]; ok {
				continue
			}
			res[id] = parent
			frontier = append(frontier, id)
		}
	}
	return res, nil
}

func (s *sqliteService) Subtree(
	ctx context.Context, rootID int,
) (map[int]int, error) {
	return s.FetchSubtree(ctx, []int{rootID})
}

// selectParents returns taxonID→parentID for rows whose col matches
// one of ids, chunked under the batch ceiling.
func (s *sqliteService) selectParents(
	ctx context.Context, col string, ids []int,
) (map[int]int, error) {
	res := make(map[int]int)
	for chunk := range slices.Chunk(ids, s.batchSize) {
		query := fmt.Sprintf(
			`SELECT %q, %q FROM %q WHERE %q IN (%s)`,
			expanded.ColTaxonID, expanded.ColParentID,
			expanded.Table, col, placeholders(len(chunk)),
		)
		rows, err := s.queryRows(ctx, query, intArgs(chunk)...)
		if err != nil {
			return nil, s.queryError("subtree", err)
		}
		for _, row := range rows {
			id, ok := row.Int(expanded.ColTaxonID)
			if !ok {
				continue
			}
			parent, _ := row.Int(expanded.ColParentID)
			res[id] = parent
		}
	}
	return res, nil
}
