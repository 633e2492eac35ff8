package search

import (
	"github.com/gnames/gntaxa/pkg/parserpool"
)

// Canonicalized returns a copy of the query with its text reduced to
// the canonical scientific-name form, so "Apis mellifera Linnaeus,
// 1758" still finds its row. Canonicalization applies only when the
// query targets the scientific scope exclusively; vernacular text
// would be mangled by a name parser.
func (q Query) Canonicalized(pool parserpool.Pool) Query {
	if pool == nil || !q.Scopes[ScopeScientific] || q.Scopes[ScopeVernacular] {
		return q
	}
	if canonical, ok := pool.Canonical(q.Text); ok {
		q.Text = canonical
	}
	return q
}
