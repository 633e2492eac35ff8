// Package expanded models the wide-ancestry expanded_taxa row and the
// pure transformations both backends share. One row exists per taxon;
// besides its own fields it materializes the full ancestor chain as one
// (taxonID, name, commonName) column triple per rank level, so ancestry
// reads are plain column lookups instead of recursive traversal.
//
// Column identifiers are case-sensitive in the live schema; every raw
// query must quote them exactly as the constants below spell them.
package expanded

import (
	"math"
	"strconv"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/taxon"
)

// Table is the name of the wide-ancestry table in both backends.
const Table = "expanded_taxa"

// Exact-case column names of the core fields.
const (
	ColTaxonID          = "taxonID"
	ColName             = "name"
	ColRank             = "rank"
	ColRankLevel        = "rankLevel"
	ColCommonName       = "commonName"
	ColTaxonActive      = "taxonActive"
	ColParentID         = "immediateAncestor_taxonID"
	ColParentRankLevel  = "immediateAncestor_rankLevel"
	ColMajorParentID    = "immediateMajorAncestor_taxonID"
	ColMajorParentLevel = "immediateMajorAncestor_rankLevel"
	ColMaterializedPath = "path"
)

// TaxonIDCol returns the L{level}_taxonID column name for a rank level.
func TaxonIDCol(l rank.Level) string { return l.Prefix() + "_taxonID" }

// NameCol returns the L{level}_name column name for a rank level.
func NameCol(l rank.Level) string { return l.Prefix() + "_name" }

// CommonNameCol returns the L{level}_commonName column name for a level.
func CommonNameCol(l rank.Level) string { return l.Prefix() + "_commonName" }

// Row is a scanned expanded_taxa row keyed by exact column name. Values
// come straight from a database driver, so numeric fields may arrive as
// int64, float64, string, or []byte; accessors below normalize them.
type Row map[string]any

// Pair is one entry of an ancestry chain.
type Pair struct {
	ID    int
	Level rank.Level
}

// Int returns the named column as an int. ok is false when the column
// is absent, NULL, or not a number.
func (r Row) Int(col string) (int, bool) {
	switch v := r[col].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case []byte:
		i, err := strconv.Atoi(string(v))
		return i, err == nil
	case string:
		i, err := strconv.Atoi(v)
		return i, err == nil
	default:
		return 0, false
	}
}

// Level returns the named column as a rank level. Datasets store the
// two half-levels as decimals (33.5, 34.5); they map onto the tenfold
// encoded levels so comparisons stay integral.
func (r Row) Level(col string) (rank.Level, bool) {
	var f float64
	switch v := r[col].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case []byte:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		i, ok := r.Int(col)
		return rank.Level(i), ok
	}
	if f != math.Trunc(f) {
		return rank.Level(int(math.Round(f * 10))), true
	}
	return rank.Level(int(f)), true
}

// Str returns the named column as a string, "" when absent or NULL.
func (r Row) Str(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Active reports the taxonActive flag; a missing column counts as active.
func (r Row) Active() bool {
	v, ok := r[ColTaxonActive]
	if !ok || v == nil {
		return true
	}
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case int:
		return b != 0
	case string:
		return b != "0" && b != "false" && b != "f" && b != ""
	default:
		return true
	}
}

// AncestryPairs extracts the ancestry chain from the L-columns as
// (taxonID, rankLevel) pairs in root→self order, self included. The
// row's own id is appended when no L-column already carries it, and
// duplicate ids (a row often repeats itself in its own rank's triple)
// collapse to their first occurrence.
func (r Row) AncestryPairs() ([]Pair, error) {
	var pairs []Pair
	for _, lvl := range rank.Desc() {
		if id, ok := r.Int(TaxonIDCol(lvl)); ok {
			pairs = append(pairs, Pair{ID: id, Level: lvl})
		}
	}

	selfID, ok := r.Int(ColTaxonID)
	if !ok {
		return nil, ErrMissingCoreColumns
	}
	selfLevel, ok := r.Level(ColRankLevel)
	if !ok {
		return nil, ErrMissingCoreColumns
	}
	pairs = append(pairs, Pair{ID: selfID, Level: selfLevel})

	seen := make(map[int]struct{}, len(pairs))
	res := pairs[:0]
	for _, p := range pairs {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		res = append(res, p)
	}
	return res, nil
}

// AncestryIDs returns the chain ids in root→self order, self included.
// With includeMinor false only major-rank entries remain; a minor-rank
// taxon's own id drops out of its major chain, which keeps chain
// intersection equivalent to comparing the major L-columns directly.
func (r Row) AncestryIDs(includeMinor bool) ([]int, error) {
	pairs, err := r.AncestryPairs()
	if err != nil {
		return nil, err
	}
	res := make([]int, 0, len(pairs))
	for _, p := range pairs {
		if includeMinor || p.Level.IsMajor() {
			res = append(res, p.ID)
		}
	}
	return res, nil
}

// HasAncestryColumns reports whether any L-column triple is present, so
// callers can distinguish "no ancestors" from "columns not selected".
func (r Row) HasAncestryColumns() bool {
	for _, lvl := range rank.All {
		if _, ok := r[TaxonIDCol(lvl)]; ok {
			return true
		}
	}
	return false
}

// Taxon converts the row into the caller-facing value object. Ancestry
// is resolved from the L-columns when they were selected; otherwise the
// field stays empty.
func (r Row) Taxon() (*taxon.Taxon, error) {
	id, ok := r.Int(ColTaxonID)
	if !ok {
		return nil, ErrMissingCoreColumns
	}
	name := r.Str(ColName)
	if name == "" {
		return nil, ErrMissingCoreColumns
	}
	level, ok := r.Level(ColRankLevel)
	if !ok {
		return nil, ErrMissingCoreColumns
	}

	res := &taxon.Taxon{
		ID:             id,
		ScientificName: name,
		RankLevel:      level,
		Source:         "expanded_taxa",
	}
	if parent, ok := r.Int(ColParentID); ok {
		res.ParentID = parent
	}
	if common := r.Str(ColCommonName); common != "" {
		res.Vernacular = map[string][]string{"en": {common}}
	}
	if r.HasAncestryColumns() {
		ids, err := r.AncestryIDs(true)
		if err != nil {
			return nil, err
		}
		res.Ancestry = ids
	}
	return res, nil
}
