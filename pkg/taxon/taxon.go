// Package taxon defines the value objects returned by the taxonomy
// service: the Taxon record itself and the Summary lineage view.
// The package is pure data; all I/O lives in the backend packages.
package taxon

import (
	"github.com/gnames/gntaxa/pkg/rank"
)

// Taxon is a single taxonomy record as seen by callers of the service.
// Instances are treated as immutable once constructed; backends always
// return fresh values.
type Taxon struct {
	// ID is the globally unique taxon identifier.
	ID int `json:"taxonId"`

	// ScientificName is the canonical scientific name.
	ScientificName string `json:"scientificName"`

	// RankLevel is the numeric rank of the taxon.
	RankLevel rank.Level `json:"rankLevel"`

	// ParentID is the immediate parent's identifier, 0 at forest roots.
	ParentID int `json:"parentId,omitempty"`

	// Ancestry holds ancestor identifiers in root→self order, self
	// included. It is empty when the backend did not resolve it.
	Ancestry []int `json:"ancestry,omitempty"`

	// Source tags the authority the record came from.
	Source string `json:"source,omitempty"`

	// Vernacular maps a language code to common names in preference
	// order.
	Vernacular map[string][]string `json:"vernacular,omitempty"`
}

// CommonName returns the first vernacular name for the language, or ""
// when none is recorded.
func (t *Taxon) CommonName(lang string) string {
	if vv := t.Vernacular[lang]; len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// IsRoot reports whether the taxon has no parent.
func (t *Taxon) IsRoot() bool {
	return t.ParentID == 0
}
