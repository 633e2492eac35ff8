package lifecycle_test

import (
	"testing"

	"github.com/gnames/gntaxa/internal/iopopulate"
	"github.com/gnames/gntaxa/internal/ioschema"
	"github.com/gnames/gntaxa/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestSchemaManagerContract ensures the ioschema implementation
// satisfies the lifecycle.SchemaManager interface. The assignment is a
// compile-time check; the test will not build if the contract breaks.
func TestSchemaManagerContract(t *testing.T) {
	var _ lifecycle.SchemaManager = ioschema.NewManager(nil)
	assert.True(t, true,
		"ioschema manager should implement lifecycle.SchemaManager")
}

// TestLoaderContract ensures the iopopulate loader satisfies the
// lifecycle.Loader interface.
func TestLoaderContract(t *testing.T) {
	var _ lifecycle.Loader = iopopulate.NewLoader(nil)
	assert.True(t, true,
		"iopopulate loader should implement lifecycle.Loader")
}

// TestOptimizerContract ensures the iopopulate optimizer satisfies the
// lifecycle.Optimizer interface.
func TestOptimizerContract(t *testing.T) {
	var _ lifecycle.Optimizer = iopopulate.NewOptimizer(nil)
	assert.True(t, true,
		"iopopulate optimizer should implement lifecycle.Optimizer")
}
