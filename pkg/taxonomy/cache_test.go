package taxonomy_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/gnames/gntaxa/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingService records how often each backend method runs, so tests
// can tell cache hits from pass-throughs.
type countingService struct {
	taxa      map[int]*taxon.Taxon
	getCalls  int
	manyCalls int
	ancCalls  int
	closed    bool
}

func newCountingService() *countingService {
	return &countingService{
		taxa: map[int]*taxon.Taxon{
			47219: {
				ID: 47219, ScientificName: "Apis mellifera",
				RankLevel: rank.Species, ParentID: 47220,
			},
			47220: {
				ID: 47220, ScientificName: "Apis",
				RankLevel: rank.Genus, ParentID: 47221,
			},
		},
	}
}

func (s *countingService) GetTaxon(
	ctx context.Context, id int,
) (*taxon.Taxon, error) {
	s.getCalls++
	if t, ok := s.taxa[id]; ok {
		return t, nil
	}
	return nil, &taxonomy.NotFoundError{TaxonID: id}
}

func (s *countingService) GetManyBatched(
	ctx context.Context, ids []int,
) (map[int]*taxon.Taxon, error) {
	s.manyCalls++
	res := make(map[int]*taxon.Taxon)
	for _, id := range ids {
		if t, ok := s.taxa[id]; ok {
			res[id] = t
		}
	}
	return res, nil
}

func (s *countingService) Children(
	ctx context.Context, id, depth int,
) iter.Seq2[*taxon.Taxon, error] {
	return func(yield func(*taxon.Taxon, error) bool) {}
}

func (s *countingService) ChildrenList(
	ctx context.Context, id, depth int,
) ([]*taxon.Taxon, error) {
	return nil, nil
}

func (s *countingService) Ancestors(
	ctx context.Context, id int, includeMinor bool,
) ([]int, error) {
	s.ancCalls++
	if includeMinor {
		return []int{1, 47120, 47158, 47201, 47221, 47220}, nil
	}
	return []int{1, 47120, 47158, 47201, 47221}, nil
}

func (s *countingService) LCA(
	ctx context.Context, ids []int, includeMinor bool,
) (*taxon.Taxon, error) {
	return s.taxa[47220], nil
}

func (s *countingService) Distance(
	ctx context.Context, a, b int, includeMinor, inclusive bool,
) (int, error) {
	return 2, nil
}

func (s *countingService) FetchSubtree(
	ctx context.Context, rootIDs []int,
) (map[int]int, error) {
	return map[int]int{rootIDs[0]: 0}, nil
}

func (s *countingService) Subtree(
	ctx context.Context, rootID int,
) (map[int]int, error) {
	return s.FetchSubtree(ctx, []int{rootID})
}

func (s *countingService) SearchTaxa(
	ctx context.Context, query string, opts ...search.Option,
) ([]search.Result, error) {
	return nil, nil
}

func (s *countingService) TaxonSummary(
	ctx context.Context, id int, majorOnly bool,
) (*taxon.Summary, error) {
	return &taxon.Summary{ID: id}, nil
}

func (s *countingService) Close() error {
	s.closed = true
	return nil
}

func TestCacheGetTaxon(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	first, err := svc.GetTaxon(ctx, 47219)
	require.NoError(t, err)
	second, err := svc.GetTaxon(ctx, 47219)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, backend.getCalls,
		"second lookup should come from the cache")
}

func TestCacheErrorNotCached(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	_, err := svc.GetTaxon(ctx, 999)
	var notFound *taxonomy.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = svc.GetTaxon(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, 2, backend.getCalls,
		"failed lookups must reach the backend every time")
}

func TestCacheGetManyBatched(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	// Prime one id, then ask for two: only the missing one should go
	// to the backend.
	_, err := svc.GetTaxon(ctx, 47219)
	require.NoError(t, err)

	res, err := svc.GetManyBatched(ctx, []int{47219, 47220})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, 1, backend.manyCalls)

	// Everything cached now: the backend stays idle.
	_, err = svc.GetManyBatched(ctx, []int{47219, 47220})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.manyCalls)
}

func TestCacheAncestorsKeyedByMode(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	full, err := svc.Ancestors(ctx, 47219, true)
	require.NoError(t, err)
	major, err := svc.Ancestors(ctx, 47219, false)
	require.NoError(t, err)

	assert.NotEqual(t, len(full), len(major),
		"minor and major chains are cached under separate keys")
	assert.Equal(t, 2, backend.ancCalls)

	_, err = svc.Ancestors(ctx, 47219, true)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.ancCalls)
}

func TestCachePassThrough(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	d, err := svc.Distance(ctx, 47219, 47220, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	tree, err := svc.Subtree(ctx, 47221)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{47221: 0}, tree)

	sum, err := svc.TaxonSummary(ctx, 47219, true)
	require.NoError(t, err)
	assert.Equal(t, 47219, sum.ID)
}

func TestCacheClose(t *testing.T) {
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, time.Minute)

	require.NoError(t, svc.Close())
	assert.True(t, backend.closed)
}

func TestCacheZeroTTL(t *testing.T) {
	ctx := context.Background()
	backend := newCountingService()
	svc := taxonomy.WithCache(backend, 0)

	_, err := svc.GetTaxon(ctx, 47219)
	require.NoError(t, err)
	_, err = svc.GetTaxon(ctx, 47219)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.getCalls,
		"zero TTL means entries never expire")
}
