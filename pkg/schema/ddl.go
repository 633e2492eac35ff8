package schema

import (
	"fmt"
	"strings"

	"github.com/gnames/gntaxa/pkg/expanded"
	"github.com/gnames/gntaxa/pkg/rank"
)

// AncestryColumnDDL generates ALTER TABLE statements adding one
// (taxonID, name, commonName) column triple per rank level. The
// statements are idempotent so the schema can be re-created over an
// existing table.
func AncestryColumnDDL() []string {
	var res []string
	for _, lvl := range rank.Desc() {
		res = append(res,
			fmt.Sprintf(
				`ALTER TABLE %q ADD COLUMN IF NOT EXISTS %q INTEGER`,
				expanded.Table, expanded.TaxonIDCol(lvl)),
			fmt.Sprintf(
				`ALTER TABLE %q ADD COLUMN IF NOT EXISTS %q VARCHAR(255)`,
				expanded.Table, expanded.NameCol(lvl)),
			fmt.Sprintf(
				`ALTER TABLE %q ADD COLUMN IF NOT EXISTS %q VARCHAR(255)`,
				expanded.Table, expanded.CommonNameCol(lvl)),
		)
	}
	return res
}

// PathColumnDDL generates statements adding the materialized ltree
// path column. The ltree extension install is attempted first; callers
// may tolerate its failure and skip the column, the query layer falls
// back to recursive traversal without it.
func PathColumnDDL() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS ltree`,
		fmt.Sprintf(
			`ALTER TABLE %q ADD COLUMN IF NOT EXISTS %q ltree`,
			expanded.Table, expanded.ColMaterializedPath),
		fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS idx_expanded_taxa_path ON %q USING gist (%q)`,
			expanded.Table, expanded.ColMaterializedPath),
	}
}

// PopulatePathSQL returns the statement that rebuilds the materialized
// path column from the ancestry columns of every row. Each path is the
// dot-joined id chain root→self, the ltree form the subtree operator
// expects. A row's own rank triple usually repeats its id, so the
// chain is deduplicated keeping first occurrences.
func PopulatePathSQL() string {
	cols := make([]string, 0, len(rank.All)+1)
	for _, lvl := range rank.Desc() {
		cols = append(cols, fmt.Sprintf("e.%q", expanded.TaxonIDCol(lvl)))
	}
	cols = append(cols, fmt.Sprintf("e.%q", expanded.ColTaxonID))

	return fmt.Sprintf(`UPDATE %q e SET %q = (
	SELECT text2ltree(string_agg(id::text, '.' ORDER BY ord))
	FROM (
		SELECT id, min(ord) AS ord
		FROM unnest(ARRAY[%s]) WITH ORDINALITY AS t(id, ord)
		WHERE id IS NOT NULL
		GROUP BY id
	) chain
)`,
		expanded.Table, expanded.ColMaterializedPath,
		strings.Join(cols, ", "),
	)
}
