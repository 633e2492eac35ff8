package iopg

import (
	"context"
	"fmt"

	"github.com/gnames/gntaxa/pkg/expanded"
)

// subtreePathQuery selects all rows whose ltree path descends from any
// of the given roots' paths. One index scan replaces the whole
// recursive walk.
func subtreePathQuery() string {
	return fmt.Sprintf(`
SELECT d.%[1]q, d.%[2]q
FROM %[3]q d
JOIN %[3]q r ON d.%[4]q <@ r.%[4]q
WHERE r.%[1]q = ANY($1)`,
		expanded.ColTaxonID, expanded.ColParentID,
		expanded.Table, expanded.ColMaterializedPath,
	)
}

// subtreeRecursiveQuery is the fallback for databases built without the
// materialized path column.
func subtreeRecursiveQuery() string {
	return fmt.Sprintf(`
WITH RECURSIVE sub(%[1]q, parent) AS (
	SELECT %[1]q, 0 FROM %[2]q WHERE %[1]q = ANY($1)
	UNION
	SELECT e.%[1]q, e.%[3]q
	FROM %[2]q e JOIN sub s ON e.%[3]q = s.%[1]q
)
SELECT %[1]q, parent FROM sub`,
		expanded.ColTaxonID, expanded.Table, expanded.ColParentID,
	)
}

// FetchSubtree maps every descendant of the given roots to its parent
// id; the roots themselves map to 0.
func (s *pgService) FetchSubtree(
	ctx context.Context, rootIDs []int,
) (map[int]int, error) {
	roots := dedupe(rootIDs)
	if len(roots) == 0 {
		return map[int]int{}, nil
	}

	res, err := s.subtreeLinks(ctx, roots)
	if err != nil {
		return nil, err
	}

	rootSet := make(map[int]struct{}, len(roots))
	for _, id := range roots {
		rootSet[id] = struct{}{}
	}
	for id := range res {
		if _, ok := rootSet[id]; ok {
			res[id] = 0
		}
	}
	return res, nil
}

func (s *pgService) Subtree(
	ctx context.Context, rootID int,
) (map[int]int, error) {
	return s.FetchSubtree(ctx, []int{rootID})
}

func (s *pgService) subtreeLinks(
	ctx context.Context, roots []int,
) (map[int]int, error) {
	if !s.pathless.Load() {
		links, err := s.scanLinks(ctx, subtreePathQuery(), roots)
		switch {
		case err == nil && len(links) > 0:
			return links, nil
		case err != nil && !undefinedColumn(err):
			return nil, s.queryError("subtree", err)
		case err != nil:
			s.pathless.Store(true)
		}
		// An empty fast-path result is ambiguous: schema creation adds
		// the path column but it stays NULL until the optimizer fills
		// it, and NULL <@ NULL matches nothing. Recheck recursively.
	}

	links, err := s.scanLinks(ctx, subtreeRecursiveQuery(), roots)
	if err != nil {
		return nil, s.queryError("subtree", err)
	}
	return links, nil
}

func (s *pgService) scanLinks(
	ctx context.Context, query string, roots []int,
) (map[int]int, error) {
	rows, err := s.pool.Query(ctx, query, roots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int]int)
	for rows.Next() {
		var id int
		var parent *int
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, err
		}
		if parent != nil {
			res[id] = *parent
		} else {
			res[id] = 0
		}
	}
	return res, rows.Err()
}
