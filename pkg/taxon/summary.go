package taxon

import (
	"fmt"
	"strings"

	"github.com/gnames/gntaxa/pkg/rank"
)

// TrailNode is one step in a taxonomic trail, root → focal taxon.
type TrailNode struct {
	RankLevel      rank.Level `json:"rankLevel"`
	ID             int        `json:"taxonId"`
	ScientificName string     `json:"scientificName"`
	VernacularName string     `json:"vernacularName,omitempty"`
}

// Summary is a compact view of a taxon and its lineage, intended for
// display. Trail is ordered root → focal taxon, focal taxon included.
type Summary struct {
	ID             int         `json:"taxonId"`
	ScientificName string      `json:"scientificName"`
	VernacularName string      `json:"vernacularName,omitempty"`
	RankLevel      rank.Level  `json:"rankLevel"`
	Trail          []TrailNode `json:"trail"`
}

// FormatTrail renders the trail as a single string, for example
// "Insecta → Hymenoptera → Apidae". When withVernacular is true, nodes
// that carry a vernacular name get it appended in parentheses.
func (s *Summary) FormatTrail(separator string, withVernacular bool) string {
	parts := make([]string, 0, len(s.Trail))
	for _, node := range s.Trail {
		if withVernacular && node.VernacularName != "" {
			parts = append(parts,
				fmt.Sprintf("%s (%s)", node.ScientificName, node.VernacularName))
		} else {
			parts = append(parts, node.ScientificName)
		}
	}
	return strings.Join(parts, separator)
}
