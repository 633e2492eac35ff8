package taxon_test

import (
	"testing"

	"github.com/gnames/gntaxa/pkg/rank"
	"github.com/gnames/gntaxa/pkg/taxon"
	"github.com/stretchr/testify/assert"
)

func TestCommonName(t *testing.T) {
	bee := &taxon.Taxon{
		ID:             47219,
		ScientificName: "Apis mellifera",
		Vernacular: map[string][]string{
			"en": {"Western Honey Bee", "Honey Bee"},
			"de": {"Honigbiene"},
		},
	}

	assert.Equal(t, "Western Honey Bee", bee.CommonName("en"))
	assert.Equal(t, "Honigbiene", bee.CommonName("de"))
	assert.Empty(t, bee.CommonName("fr"))

	var bare taxon.Taxon
	assert.Empty(t, bare.CommonName("en"))
}

func TestIsRoot(t *testing.T) {
	assert.True(t, (&taxon.Taxon{ID: 1}).IsRoot())
	assert.False(t, (&taxon.Taxon{ID: 2, ParentID: 1}).IsRoot())
}

func TestFormatTrail(t *testing.T) {
	sum := &taxon.Summary{
		ID:             47219,
		ScientificName: "Apis mellifera",
		RankLevel:      rank.Species,
		Trail: []taxon.TrailNode{
			{RankLevel: rank.Class, ID: 47158, ScientificName: "Insecta",
				VernacularName: "Insects"},
			{RankLevel: rank.Order, ID: 47201, ScientificName: "Hymenoptera"},
			{RankLevel: rank.Species, ID: 47219,
				ScientificName: "Apis mellifera",
				VernacularName: "Western Honey Bee"},
		},
	}

	assert.Equal(t,
		"Insecta → Hymenoptera → Apis mellifera",
		sum.FormatTrail(" → ", false))
	assert.Equal(t,
		"Insecta (Insects) | Hymenoptera | "+
			"Apis mellifera (Western Honey Bee)",
		sum.FormatTrail(" | ", true))

	empty := &taxon.Summary{}
	assert.Empty(t, empty.FormatTrail(" → ", true))
}
