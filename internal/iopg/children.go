package iopg

import (
	"context"
	"fmt"
	"iter"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// childrenQuery walks descendants server-side: a recursive CTE bounded
// by depth, joined back to the wide table so each streamed row carries
// its full ancestry columns. The anchor matches direct children of the
// root, so the root itself is never part of the result.
func childrenQuery() string {
	return fmt.Sprintf(`
WITH RECURSIVE sub AS (
	SELECT %[1]q, 1 AS depth
	FROM %[2]q WHERE %[3]q = $1
	UNION ALL
	SELECT e.%[1]q, s.depth + 1
	FROM %[2]q e JOIN sub s ON e.%[3]q = s.%[1]q
	WHERE s.depth < $2
)
SELECT e.* FROM %[2]q e
JOIN sub s ON s.%[1]q = e.%[1]q
ORDER BY s.depth, e.%[1]q`,
		expanded.ColTaxonID, expanded.Table, expanded.ColParentID,
	)
}

// Children streams descendants of id down to depth hops, in increasing
// depth order. Rows are decoded lazily as the cursor advances.
func (s *pgService) Children(
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

		rows, err := s.pool.Query(ctx, childrenQuery(), id, depth)
		if err != nil {
			yield(nil, s.queryError("children", err))
			return
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				yield(nil, s.queryError("children", err))
				return
			}
			row := make(expanded.Row, len(fields))
			for i, f := range fields {
				row[f.Name] = vals[i]
			}
			t, err := row.Taxon()
			if err != nil {
				yield(nil, s.queryError("children", err))
				return
			}
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, s.queryError("children", err))
		}
	}
}

func (s *pgService) ChildrenList(
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
