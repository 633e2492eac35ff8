package search

import (
	"sort"
	"strings"

	"github.com/gnames/gntaxa/pkg/taxon"
)

// Result pairs a matched taxon with its similarity score. Non-fuzzy
// matches always score 1.0.
type Result struct {
	Taxon *taxon.Taxon `json:"taxon"`
	Score float64      `json:"score"`
}

// ScoreTaxon computes the best similarity of the query against every
// name of the taxon that falls inside the query's scopes. When no
// scoped name exists the scientific name serves as fallback, so a
// candidate never scores against nothing.
func (q Query) ScoreTaxon(t *taxon.Taxon) float64 {
	var candidates []string
	if q.Scopes[ScopeScientific] && t.ScientificName != "" {
		candidates = append(candidates, t.ScientificName)
	}
	if q.Scopes[ScopeVernacular] {
		for _, names := range t.Vernacular {
			candidates = append(candidates, names...)
		}
	}
	if len(candidates) == 0 {
		if t.ScientificName == "" {
			return 0
		}
		candidates = []string{t.ScientificName}
	}

	best := 0.0
	for _, c := range candidates {
		if s := q.Score(q.Text, strings.TrimSpace(c)); s > best {
			best = s
		}
	}
	return best
}

// Rank orders a candidate superset into the final result sequence.
// Fuzzy queries re-score every candidate and drop those below the
// threshold; non-fuzzy queries keep all candidates at score 1.0.
// Ordering is deterministic: score descending, then rank level
// ascending, then scientific name, then taxon id.
func (q Query) Rank(candidates []*taxon.Taxon) []Result {
	res := make([]Result, 0, len(candidates))
	for _, t := range candidates {
		score := 1.0
		if q.Fuzzy {
			score = q.ScoreTaxon(t)
			if score < q.Threshold {
				continue
			}
		}
		res = append(res, Result{Taxon: t, Score: score})
	}

	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		an, bn := a.Taxon.RankLevel.Normalized(), b.Taxon.RankLevel.Normalized()
		if an != bn {
			return an < bn
		}
		if a.Taxon.ScientificName != b.Taxon.ScientificName {
			return a.Taxon.ScientificName < b.Taxon.ScientificName
		}
		return a.Taxon.ID < b.Taxon.ID
	})

	if q.Limit > 0 && len(res) > q.Limit {
		res = res[:q.Limit]
	}
	return res
}
