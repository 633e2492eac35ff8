package iopg_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnames/gntaxa/internal/iodb"
	"github.com/gnames/gntaxa/internal/iopg"
	"github.com/gnames/gntaxa/internal/iopopulate"
	"github.com/gnames/gntaxa/internal/ioschema"
	"github.com/gnames/gntaxa/internal/iosqlite"
	"github.com/gnames/gntaxa/internal/iotesting"
	"github.com/gnames/gntaxa/pkg/config"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/taxonomy"
)

const sampleSnapshot = "../iosqlite/testdata/expanded_taxa_sample.tsv"

// seedTestDatabase rebuilds the gntaxa_test schema and loads the
// sample snapshot. Optimization is left to the caller so both states
// of the path column can be exercised.
func seedTestDatabase(t *testing.T) (*config.Config, db.Operator) {
	t.Helper()
	ctx := context.Background()
	cfg := iotesting.GetTestConfig()

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })

	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	fh, err := os.Open(sampleSnapshot)
	require.NoError(t, err)
	defer fh.Close()

	n, err := iopopulate.NewLoader(op).Load(ctx, cfg, fh)
	require.NoError(t, err)
	require.Greater(t, n, int64(0))
	return cfg, op
}

func TestSubtreeBeforeOptimize(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg, _ := seedTestDatabase(t)

	svc, err := iopg.New(ctx, &cfg.Database)
	require.NoError(t, err)
	defer svc.Close()

	// Right after schema creation the path column exists but holds
	// only NULLs; the subtree must still come back complete through
	// the recursive fallback.
	links, err := svc.Subtree(ctx, 47201)
	require.NoError(t, err)
	assert.Len(t, links, 16)
	assert.Equal(t, 0, links[47201])
	assert.Equal(t, 47220, links[47219])
	assert.Equal(t, 54328, links[54327])
}

func TestBackendParity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg, op := seedTestDatabase(t)
	require.NoError(t, iopopulate.NewOptimizer(op).Optimize(ctx, cfg))

	pg, err := iopg.New(ctx, &cfg.Database)
	require.NoError(t, err)
	defer pg.Close()

	recursive, err := iopg.New(ctx, &cfg.Database,
		iopg.OptNoMaterializedPath())
	require.NoError(t, err)
	defer recursive.Close()

	lite, err := iosqlite.New("")
	require.NoError(t, err)
	defer lite.Close()

	backends := map[string]taxonomy.Service{
		"pg":           pg,
		"pg-recursive": recursive,
		"sqlite":       lite,
	}

	wantSubtree, err := lite.FetchSubtree(ctx, []int{47201})
	require.NoError(t, err)
	wantAncestors, err := lite.Ancestors(ctx, 47219, true)
	require.NoError(t, err)

	for name, svc := range backends {
		lca, err := svc.LCA(ctx, []int{47219, 54327}, false)
		require.NoError(t, err, name)
		assert.Equal(t, 47201, lca.ID, name)

		dist, err := svc.Distance(ctx, 47219, 54327, false, false)
		require.NoError(t, err, name)
		assert.Equal(t, 6, dist, name)

		got, err := svc.FetchSubtree(ctx, []int{47201})
		require.NoError(t, err, name)
		assert.Equal(t, wantSubtree, got, name)

		anc, err := svc.Ancestors(ctx, 47219, true)
		require.NoError(t, err, name)
		assert.Equal(t, wantAncestors, anc, name)

		children, err := svc.ChildrenList(ctx, 47201, 2)
		require.NoError(t, err, name)
		ids := make([]int, len(children))
		for i, c := range children {
			ids[i] = c.ID
		}
		assert.Equal(t, []int{326777, 47222, 48740}, ids, name)

		hits, err := svc.SearchTaxa(ctx, "vespa")
		require.NoError(t, err, name)
		require.NotEmpty(t, hits, name)
		assert.Equal(t, 54328, hits[0].Taxon.ID, name)
	}
}
