package iopg

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxon"
)

// SearchTaxa retrieves a candidate superset per match mode and hands
// ordering, fuzz scoring, and truncation to the shared ranking code.
func (s *pgService) SearchTaxa(
	ctx context.Context, query string, opts ...search.Option,
) ([]search.Result, error) {
	q := search.New(query, opts...)
	if q.Text == "" {
		return nil, nil
	}
	q = q.Canonicalized(s.parsers)

	for _, mode := range q.Modes() {
		sql, args := searchQuery(q, mode)
		rows, err := s.queryRows(ctx, sql, args...)
		if err != nil {
			return nil, s.queryError("search", err)
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

// searchQuery builds the candidate-retrieval statement for one match
// mode. ILIKE serves prefix and substring; exact matching compares
// lowercased equality so the expression index applies.
func searchQuery(q search.Query, mode search.Match) (string, []any) {
	var preds []string
	var args []any
	pattern := search.LikePattern(mode, q.Text)

	cmp := func(col string) string {
		arg := len(args) + 1
		if mode == search.MatchExact {
			return fmt.Sprintf(`LOWER(%q) = $%d`, col, arg)
		}
		return fmt.Sprintf(`%q ILIKE $%d ESCAPE '\'`, col, arg)
	}
	if q.Scopes[search.ScopeScientific] {
		preds = append(preds, cmp(expanded.ColName))
		args = append(args, pattern)
	}
	if q.Scopes[search.ScopeVernacular] {
		preds = append(preds, cmp(expanded.ColCommonName))
		args = append(args, pattern)
	}

	where := "(" + strings.Join(preds, " OR ") + ")"
	where += fmt.Sprintf(` AND COALESCE(%q, true)`, expanded.ColTaxonActive)
	if len(q.Ranks) > 0 {
		// rankLevel is stored with fractional half-levels (33.5, 34.5).
		levels := make([]float64, len(q.Ranks))
		for i, r := range q.Ranks {
			levels[i] = r.Normalized()
		}
		slices.Sort(levels)
		where += fmt.Sprintf(` AND %q = ANY($%d)`,
			expanded.ColRankLevel, len(args)+1)
		args = append(args, levels)
	}

	sql := fmt.Sprintf(
		`SELECT %q, %q, %q, %q, %q, %q FROM %q WHERE %s ORDER BY %q, %q LIMIT %d`,
		expanded.ColTaxonID, expanded.ColName, expanded.ColRank,
		expanded.ColRankLevel, expanded.ColCommonName, expanded.ColParentID,
		expanded.Table, where,
		expanded.ColRankLevel, expanded.ColName,
		q.SupersetLimit(),
	)
	return sql, args
}
