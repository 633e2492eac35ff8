package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/schema"
)

func TestAncestryColumnDDL(t *testing.T) {
	assert := assert.New(t)
	ddl := schema.AncestryColumnDDL()

	// Three statements per rank level, all idempotent.
	assert.Len(ddl, 3*len(rank.All))
	for _, stmt := range ddl {
		assert.Contains(stmt, "ADD COLUMN IF NOT EXISTS")
	}

	joined := strings.Join(ddl, "\n")
	assert.Contains(joined, `"L70_taxonID" INTEGER`)
	assert.Contains(joined, `"L10_commonName" VARCHAR(255)`)
	assert.Contains(joined, `"L33_5_name"`)
	assert.Contains(joined, `"L34_5_taxonID"`)
}

func TestAncestryColumnDDLOrder(t *testing.T) {
	ddl := schema.AncestryColumnDDL()

	// Kingdom columns come first, subspecies last.
	assert.Contains(t, ddl[0], "L70_taxonID")
	assert.Contains(t, ddl[len(ddl)-1], "L5_commonName")
}

func TestPathColumnDDL(t *testing.T) {
	assert := assert.New(t)
	ddl := schema.PathColumnDDL()
	joined := strings.Join(ddl, "\n")

	assert.Contains(joined, "CREATE EXTENSION IF NOT EXISTS ltree")
	assert.Contains(joined, `"path" ltree`)
	assert.Contains(joined, "USING gist")
}

func TestPopulatePathSQL(t *testing.T) {
	assert := assert.New(t)
	sql := schema.PopulatePathSQL()

	assert.Contains(sql, "text2ltree")
	assert.Contains(sql, `e."L70_taxonID"`)
	assert.Contains(sql, `e."taxonID"`)
	assert.Contains(sql, "WITH ORDINALITY")
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "expanded_taxa", schema.ExpandedTaxon{}.TableName())
}
