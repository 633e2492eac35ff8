package iosqlite

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// SearchTaxa retrieves a candidate superset with LIKE queries per match
// mode and hands ordering, fuzz scoring, and truncation to the shared
// ranking code.
func (s *sqliteService) SearchTaxa(
	ctx context.Context, query string, opts ...search.Option,
) ([]search.Result, error) {
	q := search.New(query, opts...)
	if q.Text == "" {
		return nil, nil
	}
	q = q.Canonicalized(s.parsers)

	for _, mode := range q.Modes() {
		rows, err := s.queryCandidates(ctx, q, mode)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		candidates := make([]*taxon.Taxon, 0, len(rows))
		for _, row := range rows {
			t, err := row.Taxon()
			if err != nil {
				return nil, s.queryError("search", err)
			}
			candidates = append(candidates, t)
		}
		return q.Rank(candidates), nil
	}
	return nil, nil
}

func (s *sqliteService) queryCandidates(
	ctx context.Context, q search.Query, mode search.Match,
) ([]expanded.Row, error) {
	var preds []string
	var args []any
	pattern := search.LikePattern(mode, q.Text)
	op := `LIKE ? ESCAPE '\'`
	if mode == search.MatchExact {
		op = "= ?"
	}
	if q.Scopes[search.ScopeScientific] {
		preds = append(preds,
			fmt.Sprintf(`LOWER(%q) %s`, expanded.ColName, op))
		args = append(args, pattern)
	}
	if q.Scopes[search.ScopeVernacular] {
		preds = append(preds,
			fmt.Sprintf(`LOWER(%q) %s`, expanded.ColCommonName, op))
		args = append(args, pattern)
	}

	where := "(" + strings.Join(preds, " OR ") + ")"
	where += fmt.Sprintf(` AND COALESCE(%q, 1) != 0`, expanded.ColTaxonActive)
	if len(q.Ranks) > 0 {
		// rankLevel is stored with fractional half-levels (33.5, 34.5).
		levels := make([]float64, len(q.Ranks))
		for i, r := range q.Ranks {
			levels[i] = r.Normalized()
		}
		slices.Sort(levels)
		where += fmt.Sprintf(` AND %q IN (%s)`,
			expanded.ColRankLevel, placeholders(len(levels)))
		for _, lvl := range levels {
			args = append(args, lvl)
		}
	}

	sql := fmt.Sprintf(
		`SELECT %q, %q, %q, %q, %q, %q FROM %q WHERE %s ORDER BY %q, %q LIMIT %d`,
		expanded.ColTaxonID, expanded.ColName, expanded.ColRank,
		expanded.ColRankLevel, expanded.ColCommonName, expanded.ColParentID,
		expanded.Table, where,
		expanded.ColRankLevel, expanded.ColName,
		q.SupersetLimit(),
	)
	rows, err := s.queryRows(ctx, sql, args...)
	if err != nil {
		return nil, &taxonomy.ServiceError{Op: "search", Err: err}
	}
	return rows, nil
}
