package iosqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

// Well-known ids from the bundled Hymenoptera fixture.
const (
	animaliaID      = 1
	arthropodaID    = 47120
	insectaID       = 47158
	hymenopteraID   = 47201
	apocritaID      = 326777
	anthophilaID    = 630955
	apidaeID        = 47221
	apisID          = 47220
	apisMelliferaID = 47219
	bombusID        = 52775
	vespidaeID      = 52747
	vespinaeID      = 84738
	vespaID         = 54328
	vespaCrabroID   = 54327
	mandariniaID    = 322284
	vespulaID       = 61356
	vulgarisID      = 126155
)

func newTestService(t *testing.T) taxonomy.Service {
	t.Helper()
	svc, err := New("")
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestNewMissingFile(t *testing.T) {
	_, err := New("/no/such/dir/expanded_taxa.sqlite")
	var connErr *taxonomy.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestGetTaxon(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.GetTaxon(ctx, apisMelliferaID)
	assert.NoError(err)
	assert.Equal(apisMelliferaID, got.ID)
	assert.Equal("Apis mellifera", got.ScientificName)
	assert.Equal(rank.Species, got.RankLevel)
	assert.Equal(apisID, got.ParentID)
	assert.Equal("honey bee", got.CommonName("en"))
	assert.False(got.IsRoot())

	// Ancestry is root→self inclusive.
	require.NotEmpty(t, got.Ancestry)
	assert.Equal(animaliaID, got.Ancestry[0])
	assert.Equal(apisMelliferaID, got.Ancestry[len(got.Ancestry)-1])
	assert.Contains(got.Ancestry, anthophilaID)
}

func TestGetTaxonNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetTaxon(context.Background(), 999_999_999)
	var notFound *taxonomy.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, 999_999_999, notFound.TaxonID)
}

func TestGetManyBatched(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	ids := []int{apisMelliferaID, vespaCrabroID, bombusID, 42}
	got, err := svc.GetManyBatched(ctx, ids)
	assert.NoError(err)
	assert.Len(got, 3)
	assert.NotContains(got, 42)

	// Batched results match per-id lookups.
	for _, id := range ids[:3] {
		single, err := svc.GetTaxon(ctx, id)
		assert.NoError(err)
		assert.Equal(single, got[id])
	}
}

func TestGetManyBatchedSmallChunks(t *testing.T) {
	svc, err := New("", OptBatchSize(2))
	require.NoError(t, err)
	defer svc.Close()

	ids := []int{apisID, bombusID, vespaID, vespulaID, vespidaeID}
	got, err := svc.GetManyBatched(context.Background(), ids)
	assert.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestChildren(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		msg     string
		id      int
		depth   int
		wantIDs []int
	}{
		{"direct genera of Apidae", apidaeID, 1, []int{apisID, bombusID}},
		{"vespid clades two deep", vespidaeID, 2,
			[]int{vespinaeID, vespaID, vespulaID}},
		{"whole vespid subtree", vespidaeID, 10,
			[]int{vespinaeID, vespaID, vespaCrabroID, mandariniaID,
				vespulaID, vulgarisID}},
		{"leaf has no children", vulgarisID, 3, nil},
	}

	for _, test := range tests {
		got, err := svc.ChildrenList(ctx, test.id, test.depth)
		assert.NoError(err, test.msg)
		ids := make([]int, len(got))
		for i, tx := range got {
			ids[i] = tx.ID
		}
		assert.ElementsMatch(test.wantIDs, ids, test.msg)
	}
}

func TestChildrenStreaming(t *testing.T) {
	svc := newTestService(t)

	// The iterator honors early break.
	var count int
	for _, err := range svc.Children(context.Background(), vespidaeID, 10) {
		assert.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestChildrenBadDepth(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ChildrenList(context.Background(), apidaeID, 0)
	var svcErr *taxonomy.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestAncestors(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	full, err := svc.Ancestors(ctx, apisMelliferaID, true)
	assert.NoError(err)
	assert.Equal(animaliaID, full[0])
	assert.Contains(full, anthophilaID)
	assert.Contains(full, apocritaID)
	assert.NotContains(full, apisMelliferaID, "self is excluded")
	assert.Equal(apisID, full[len(full)-1])

	major, err := svc.Ancestors(ctx, apisMelliferaID, false)
	assert.NoError(err)
	assert.Equal([]int{animaliaID, arthropodaID, insectaID,
		hymenopteraID, apidaeID, apisID}, major)
}

func TestAncestorsRoot(t *testing.T) {
	svc := newTestService(t)
	got, err := svc.Ancestors(context.Background(), animaliaID, true)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestLCA(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		msg          string
		ids          []int
		includeMinor bool
		want         int
	}{
		{"bee and hornet meet at the order",
			[]int{apisMelliferaID, vespaCrabroID}, false, hymenopteraID},
		{"bee and hornet, minor ranks refine to Apocrita",
			[]int{apisMelliferaID, vespaCrabroID}, true, apocritaID},
		{"sister genera meet at the family",
			[]int{bombusID, apisID}, false, apidaeID},
		{"vespine genera meet at the family in major mode",
			[]int{vespulaID, vespaID}, false, vespidaeID},
		{"vespine genera meet at the subfamily with minor ranks",
			[]int{vespulaID, vespaID}, true, vespinaeID},
		{"single id is its own lca",
			[]int{apisMelliferaID}, true, apisMelliferaID},
		{"duplicates collapse",
			[]int{vespaID, vespaID}, true, vespaID},
		{"ancestor of the other",
			[]int{vespidaeID, vulgarisID}, true, vespidaeID},
		{"three-way", []int{apisMelliferaID, bombusID, vespaCrabroID},
			false, hymenopteraID},
	}

	for _, test := range tests {
		got, err := svc.LCA(ctx, test.ids, test.includeMinor)
		assert.NoError(err, test.msg)
		assert.Equal(test.want, got.ID, test.msg)
	}
}

func TestLCAErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.LCA(ctx, nil, true)
	var svcErr *taxonomy.ServiceError
	assert.ErrorAs(t, err, &svcErr)

	_, err = svc.LCA(ctx, []int{apisID, 999_999_999}, true)
	var notFound *taxonomy.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDistance(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		msg          string
		a, b         int
		includeMinor bool
		inclusive    bool
		want         int
	}{
		{"bee to hornet over major ranks",
			apisMelliferaID, vespaCrabroID, false, false, 6},
		{"sister genera", bombusID, apisID, false, false, 2},
		{"parent to child", apisID, apisMelliferaID, false, false, 1},
		{"same taxon", vespaID, vespaID, true, false, 0},
		{"same taxon inclusive", vespaID, vespaID, true, true, 1},
		{"inclusive adds one",
			apisMelliferaID, vespaCrabroID, false, true, 7},
	}

	for _, test := range tests {
		got, err := svc.Distance(
			ctx, test.a, test.b, test.includeMinor, test.inclusive)
		assert.NoError(err, test.msg)
		assert.Equal(test.want, got, test.msg)

		// Distance is symmetric.
		rev, err := svc.Distance(
			ctx, test.b, test.a, test.includeMinor, test.inclusive)
		assert.NoError(err, test.msg)
		assert.Equal(got, rev, test.msg)
	}
}

func TestFetchSubtree(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	sub, err := svc.FetchSubtree(context.Background(), []int{vespidaeID})
	assert.NoError(err)
	assert.Len(sub, 7)
	assert.Equal(0, sub[vespidaeID], "root maps to zero")
	assert.Equal(vespidaeID, sub[vespinaeID])
	assert.Equal(vespinaeID, sub[vespaID])
	assert.Equal(vespinaeID, sub[vespulaID])
	assert.Equal(vespaID, sub[vespaCrabroID])
	assert.Equal(vespaID, sub[mandariniaID])
	assert.Equal(vespulaID, sub[vulgarisID])

	// Every non-root parent is itself in the map.
	for id, parent := range sub {
		if id == vespidaeID {
			continue
		}
		assert.Contains(sub, parent)
	}
}

func TestFetchSubtreeMultipleRoots(t *testing.T) {
	svc := newTestService(t)
	sub, err := svc.FetchSubtree(
		context.Background(), []int{vespaID, vespulaID})
	assert.NoError(t, err)
	assert.Len(t, sub, 5)
	assert.Equal(t, 0, sub[vespaID])
	assert.Equal(t, 0, sub[vespulaID])
}

func TestFetchSubtreeUnknownRoot(t *testing.T) {
	svc := newTestService(t)
	sub, err := svc.FetchSubtree(context.Background(), []int{999_999_999})
	assert.NoError(t, err)
	assert.Empty(t, sub)
}

func TestSearchTaxa(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		msg     string
		query   string
		opts    []search.Option
		wantIDs []int
	}{
		{
			msg:     "exact scientific name",
			query:   "Apis mellifera",
			wantIDs: []int{apisMelliferaID},
		},
		{
			msg:     "exact is case-insensitive",
			query:   "apis MELLIFERA",
			wantIDs: []int{apisMelliferaID},
		},
		{
			msg:     "vernacular name",
			query:   "honey bee",
			opts:    []search.Option{search.OptScopes(search.ScopeVernacular)},
			wantIDs: []int{apisMelliferaID},
		},
		{
			msg:     "auto stops at the exact stage",
			query:   "Vespa",
			wantIDs: []int{vespaID},
		},
		{
			msg:   "substring across ranks",
			query: "espul",
			opts: []search.Option{
				search.OptMatch(search.MatchSubstring),
				search.OptFuzzy(false),
			},
			wantIDs: []int{vespulaID, vulgarisID},
		},
		{
			msg:   "rank filter keeps species only",
			query: "vespa",
			opts: []search.Option{
				search.OptMatch(search.MatchSubstring),
				search.OptFuzzy(false),
				search.OptRanks(rank.Species),
			},
			wantIDs: []int{vespaCrabroID, mandariniaID},
		},
		{
			msg:     "no match",
			query:   "Tyrannosaurus",
			wantIDs: nil,
		},
		{
			msg:   "underscore is a literal, not a wildcard",
			query: "v_spa",
			opts: []search.Option{
				search.OptMatch(search.MatchSubstring),
				search.OptFuzzy(false),
			},
			wantIDs: nil,
		},
		{
			msg:   "percent is a literal, not match-everything",
			query: "%",
			opts: []search.Option{
				search.OptMatch(search.MatchSubstring),
				search.OptFuzzy(false),
			},
			wantIDs: nil,
		},
		{
			msg:     "blank query",
			query:   "   ",
			wantIDs: nil,
		},
	}

	for _, test := range tests {
		got, err := svc.SearchTaxa(ctx, test.query, test.opts...)
		assert.NoError(err, test.msg)
		ids := make([]int, 0, len(got))
		for _, res := range got {
			ids = append(ids, res.Taxon.ID)
		}
		assert.ElementsMatch(test.wantIDs, ids, test.msg)
	}
}

func TestSearchTaxaFuzzyRanking(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	// Prefix retrieval plus fuzzy re-ranking tolerates a truncated
	// epithet; the score reflects the partial match.
	got, err := svc.SearchTaxa(context.Background(), "Apis mel",
		search.OptMatch(search.MatchPrefix),
		search.OptThreshold(0.5),
	)
	assert.NoError(err)
	assert.NotEmpty(got)
	assert.Equal(apisMelliferaID, got[0].Taxon.ID)
	assert.Less(got[0].Score, 1.0)
	assert.GreaterOrEqual(got[0].Score, 0.5)
}

func TestSearchTaxaOrdering(t *testing.T) {
	svc := newTestService(t)

	// Higher (coarser) ranks sort after lower ones at equal score, so
	// the genus Vespa precedes nothing here but species follow their
	// scores in deterministic order.
	got, err := svc.SearchTaxa(context.Background(), "vespa",
		search.OptMatch(search.MatchSubstring),
		search.OptFuzzy(false),
	)
	assert.NoError(t, err)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score)
		if prev.Score == cur.Score {
			assert.LessOrEqual(t,
				prev.Taxon.RankLevel.Normalized(),
				cur.Taxon.RankLevel.Normalized())
		}
	}
}

func TestTaxonSummary(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)
	ctx := context.Background()

	sum, err := svc.TaxonSummary(ctx, apisMelliferaID, true)
	assert.NoError(err)
	assert.Equal("Apis mellifera", sum.ScientificName)
	assert.Equal("honey bee", sum.VernacularName)
	assert.Equal(rank.Species, sum.RankLevel)

	names := make([]string, len(sum.Trail))
	for i, node := range sum.Trail {
		names[i] = node.ScientificName
	}
	assert.Equal([]string{
		"Animalia", "Arthropoda", "Insecta", "Hymenoptera",
		"Apidae", "Apis", "Apis mellifera",
	}, names)

	last := sum.Trail[len(sum.Trail)-1]
	assert.Equal("honey bee", last.VernacularName)

	trail := sum.FormatTrail(" → ", false)
	assert.Equal("Animalia → Arthropoda → Insecta → Hymenoptera"+
		" → Apidae → Apis → Apis mellifera", trail)
}

func TestTaxonSummaryWithMinorRanks(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService(t)

	sum, err := svc.TaxonSummary(context.Background(), apisMelliferaID, false)
	assert.NoError(err)
	assert.Len(sum.Trail, 12)

	byID := make(map[int]string, len(sum.Trail))
	vern := make(map[int]string, len(sum.Trail))
	for _, node := range sum.Trail {
		byID[node.ID] = node.ScientificName
		vern[node.ID] = node.VernacularName
	}
	assert.Equal("Anthophila", byID[anthophilaID])
	assert.Equal("Bees", vern[anthophilaID])
	assert.Equal("Apocrita", byID[apocritaID])
}
