package iopg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/search"
)

func TestChunkInts(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		msg  string
		ids  []int
		size int
		want [][]int
	}{
		{"empty", nil, 3, nil},
		{"single chunk", []int{1, 2}, 3, [][]int{{1, 2}}},
		{"exact fit", []int{1, 2, 3}, 3, [][]int{{1, 2, 3}}},
		{"split", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
	}
	for _, test := range tests {
		assert.Equal(test.want, chunkInts(test.ids, test.size), test.msg)
	}
}

func TestDedupe(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]int{3, 1, 2}, dedupe([]int{3, 1, 3, 2, 1}))
	assert.Empty(dedupe(nil))
}

func TestSearchQueryExact(t *testing.T) {
	assert := assert.New(t)
	q := search.New("Apis mellifera")

	sql, args := searchQuery(q, search.MatchExact)
	assert.Contains(sql, `LOWER("name") = $1`)
	assert.Contains(sql, `LOWER("commonName") = $2`)
	assert.Contains(sql, `COALESCE("taxonActive", true)`)
	assert.Contains(sql, "LIMIT 100")
	assert.Equal([]any{"apis mellifera", "apis mellifera"}, args)
}

func TestSearchQuerySubstring(t *testing.T) {
	assert := assert.New(t)
	q := search.New("vespa",
		search.OptScopes(search.ScopeScientific),
		search.OptFuzzy(false),
		search.OptLimit(10),
		search.OptRanks(rank.Species, rank.Genus),
	)

	sql, args := searchQuery(q, search.MatchSubstring)
	assert.Contains(sql, `"name" ILIKE $1 ESCAPE '\'`)
	assert.NotContains(sql, "commonName\" ILIKE")
	assert.Contains(sql, `"rankLevel" = ANY($2)`)
	assert.Contains(sql, "LIMIT 10")
	assert.Equal("%vespa%", args[0])
	assert.Equal([]float64{10, 20}, args[1])
}

func TestChildrenQueryShape(t *testing.T) {
	assert := assert.New(t)
	sql := childrenQuery()
	assert.Contains(sql, "WITH RECURSIVE")
	assert.Contains(sql, `"immediateAncestor_taxonID" = $1`)
	assert.Contains(sql, "s.depth < $2")
}

func TestSubtreeQueryShapes(t *testing.T) {
	assert := assert.New(t)
	assert.Contains(subtreePathQuery(), `d."path" <@ r."path"`)
	assert.Contains(subtreePathQuery(), `= ANY($1)`)
	assert.Contains(subtreeRecursiveQuery(), "WITH RECURSIVE")
}
