package taxonomy

import (
	"context"
	"fmt"
	"iter"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gnames/gntaxa/pkg/search"
	"github.com/gnames/gntaxa/pkg/taxon"
)

// cachedService is a read-through decorator over another Service. The
// taxonomy table is read-only, so cached entries never need
// invalidation; the TTL only bounds memory.
type cachedService struct {
	svc   Service
	store *gocache.Cache
}

// WithCache wraps a Service with an in-memory TTL cache for the hot
// single-taxon lookups: GetTaxon and Ancestors. Other operations pass
// through, though GetManyBatched consults the cache before touching the
// backend. A zero ttl means entries never expire.
func WithCache(svc Service, ttl time.Duration) Service {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &cachedService{
		svc:   svc,
		store: gocache.New(ttl, 10*time.Minute),
	}
}

func taxonKey(id int) string { return fmt.Sprintf("t/%d", id) }

func ancestorsKey(id int, includeMinor bool) string {
	return fmt.Sprintf("a/%d/%t", id, includeMinor)
}

func (c *cachedService) GetTaxon(ctx context.Context, id int) (*taxon.Taxon, error) {
	if v, ok := c.store.Get(taxonKey(id)); ok {
		return v.(*taxon.Taxon), nil
	}
	t, err := c.svc.GetTaxon(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault(taxonKey(id), t)
	return t, nil
}

func (c *cachedService) GetManyBatched(
	ctx context.Context, ids []int,
) (map[int]*taxon.Taxon, error) {
	res := make(map[int]*taxon.Taxon, len(ids))
	var missing []int
	for _, id := range ids {
		if v, ok := c.store.Get(taxonKey(id)); ok {
			res[id] = v.(*taxon.Taxon)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return res, nil
	}

	fetched, err := c.svc.GetManyBatched(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, t := range fetched {
		c.store.SetDefault(taxonKey(id), t)
		res[id] = t
	}
	return res, nil
}

func (c *cachedService) Ancestors(
	ctx context.Context, id int, includeMinor bool,
) ([]int, error) {
	key := ancestorsKey(id, includeMinor)
	if v, ok := c.store.Get(key); ok {
		return v.([]int), nil
	}
	ids, err := c.svc.Ancestors(ctx, id, includeMinor)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault(key, ids)
	return ids, nil
}

func (c *cachedService) Children(
	ctx context.Context, id, depth int,
) iter.Seq2[*taxon.Taxon, error] {
	return c.svc.Children(ctx, id, depth)
}

func (c *cachedService) ChildrenList(
	ctx context.Context, id, depth int,
) ([]*taxon.Taxon, error) {
	return c.svc.ChildrenList(ctx, id, depth)
}

func (c *cachedService) LCA(
	ctx context.Context, ids []int, includeMinor bool,
) (*taxon.Taxon, error) {
	return c.svc.LCA(ctx, ids, includeMinor)
}

func (c *cachedService) Distance(
	ctx context.Context, a, b int, includeMinor, inclusive bool,
) (int, error) {
	return c.svc.Distance(ctx, a, b, includeMinor, inclusive)
}

func (c *cachedService) FetchSubtree(
	ctx context.Context, rootIDs []int,
) (map[int]int, error) {
	return c.svc.FetchSubtree(ctx, rootIDs)
}

func (c *cachedService) Subtree(
	ctx context.Context, rootID int,
) (map[int]int, error) {
	return c.svc.Subtree(ctx, rootID)
}

func (c *cachedService) SearchTaxa(
	ctx context.Context, query string, opts ...search.Option,
) ([]search.Result, error) {
	return c.svc.SearchTaxa(ctx, query, opts...)
}

func (c *cachedService) TaxonSummary(
	ctx context.Context, id int, majorOnly bool,
) (*taxon.Summary, error) {
	return c.svc.TaxonSummary(ctx, id, majorOnly)
}

func (c *cachedService) Close() error {
	c.store.Flush()
	return c.svc.Close()
}
