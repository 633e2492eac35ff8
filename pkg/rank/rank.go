// Package rank defines the fixed set of taxonomic rank levels used by the
// expanded_taxa table and the query layer built on top of it.
//
// Rank levels are numeric: larger numbers mean higher (coarser) ranks,
// so a child's level is always strictly smaller than any ancestor's.
// Two half-levels exist between section and infraorder; they are stored
// tenfold-scaled (335 means 33.5, 345 means 34.5) to keep the type
// integral. Use Normalized for ordering and Prefix for column names.
package rank

import (
	"fmt"
	"slices"
	"strings"
)

// Level is a taxonomic rank level as stored in the rankLevel column.
type Level int

// All rank levels known to the expanded_taxa schema, most specific first.
const (
	Subspecies    Level = 5
	Species       Level = 10
	Complex       Level = 11
	Subsection    Level = 12
	Section       Level = 13
	Subgenus      Level = 15
	Genus         Level = 20
	Subtribe      Level = 24
	Tribe         Level = 25
	Supertribe    Level = 26
	Subfamily     Level = 27
	Family        Level = 30
	Epifamily     Level = 32
	Superfamily   Level = 33
	Zoosubsection Level = 335 // 33.5
	Zoosection    Level = 34
	Parvorder     Level = 345 // 34.5
	Infraorder    Level = 35
	Suborder      Level = 37
	Order         Level = 40
	Superorder    Level = 43
	Subterclass   Level = 44
	Infraclass    Level = 45
	Subclass      Level = 47
	Class         Level = 50
	Superclass    Level = 53
	Subphylum     Level = 57
	Phylum        Level = 60
	Subkingdom    Level = 67
	Kingdom       Level = 70
)

// All lists every level in ascending (most specific first) order.
// The slice is shared; callers must not mutate it.
var All = []Level{
	Subspecies, Species, Complex, Subsection, Section, Subgenus,
	Genus, Subtribe, Tribe, Supertribe, Subfamily, Family,
	Epifamily, Superfamily, Zoosubsection, Zoosection, Parvorder,
	Infraorder, Suborder, Order, Superorder, Subterclass, Infraclass,
	Subclass, Class, Superclass, Subphylum, Phylum, Subkingdom, Kingdom,
}

// Major lists the coarse classification grid: species, genus, family,
// order, class, phylum, kingdom.
var Major = []Level{Species, Genus, Family, Order, Class, Phylum, Kingdom}

var names = map[Level]string{
	Subspecies:    "subspecies",
	Species:       "species",
	Complex:       "complex",
	Subsection:    "subsection",
	Section:       "section",
	Subgenus:      "subgenus",
	Genus:         "genus",
	Subtribe:      "subtribe",
	Tribe:         "tribe",
	Supertribe:    "supertribe",
	Subfamily:     "subfamily",
	Family:        "family",
	Epifamily:     "epifamily",
	Superfamily:   "superfamily",
	Zoosubsection: "zoosubsection",
	Zoosection:    "zoosection",
	Parvorder:     "parvorder",
	Infraorder:    "infraorder",
	Suborder:      "suborder",
	Order:         "order",
	Superorder:    "superorder",
	Subterclass:   "subterclass",
	Infraclass:    "infraclass",
	Subclass:      "subclass",
	Class:         "class",
	Superclass:    "superclass",
	Subphylum:     "subphylum",
	Phylum:        "phylum",
	Subkingdom:    "subkingdom",
	Kingdom:       "kingdom",
}

// IsValid reports whether l is one of the enumerated levels.
func (l Level) IsValid() bool {
	_, ok := names[l]
	return ok
}

// IsMajor reports whether l belongs to the major-rank subset.
func (l Level) IsMajor() bool {
	return slices.Contains(Major, l)
}

// Normalized returns the level on a continuous scale, mapping the
// tenfold-scaled half-levels back to their real positions
// (335 -> 33.5, 345 -> 34.5). Use it whenever levels are compared or
// sorted; raw values of half-levels would sort above Kingdom.
func (l Level) Normalized() float64 {
	switch l {
	case Zoosubsection:
		return 33.5
	case Parvorder:
		return 34.5
	default:
		return float64(l)
	}
}

// Prefix returns the column-name prefix for this level in expanded_taxa,
// e.g. "L10" for species and "L33_5" for zoosubsection.
func (l Level) Prefix() string {
	switch l {
	case Zoosubsection:
		return "L33_5"
	case Parvorder:
		return "L34_5"
	default:
		return fmt.Sprintf("L%d", int(l))
	}
}

// String returns the lowercase rank name, or "level(N)" for unknown values.
func (l Level) String() string {
	if s, ok := names[l]; ok {
		return s
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Desc returns all levels in descending (root-first) order by their
// normalized position. The result is a fresh slice.
func Desc() []Level {
	res := slices.Clone(All)
	slices.SortFunc(res, func(a, b Level) int {
		switch {
		case a.Normalized() > b.Normalized():
			return -1
		case a.Normalized() < b.Normalized():
			return 1
		default:
			return 0
		}
	})
	return res
}

// abbreviations maps common shorthand rank names to canonical ones.
var abbreviations = map[string]string{
	"ssp":    "subspecies",
	"subsp":  "subspecies",
	"sp":     "species",
	"spp":    "species",
	"var":    "subspecies",
	"gen":    "genus",
	"subgen": "subgenus",
	"trib":   "tribe",
	"fam":    "family",
	"subfam": "subfamily",
	"ord":    "order",
	"subord": "suborder",
	"cl":     "class",
	"subcl":  "subclass",
	"phyl":   "phylum",
	"king":   "kingdom",
	"kingd":  "kingdom",
}

// Infer resolves a rank-name string (full name or common abbreviation,
// any case, optional trailing dot) to its Level. The second value is
// false when the name is not recognized.
func Infer(name string) (Level, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, ".")
	if canonical, ok := abbreviations[s]; ok {
		s = canonical
	}
	for lvl, n := range names {
		if n == s {
			return lvl, true
		}
	}
	return 0, false
}
