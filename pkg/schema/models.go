// Package schema provides the database schema model for the
// expanded_taxa table. The core columns are expressed as a GORM model;
// the per-rank ancestry column triples are too numerous and regular
// for struct tags, so they are generated as DDL from the rank ladder.
package schema

// ExpandedTaxon is the GORM model for the core columns of
// expanded_taxa. Column names are case-sensitive and carry the exact
// spelling the query layer quotes.
type ExpandedTaxon struct {
	TaxonID int    `gorm:"column:taxonID;primaryKey"`
	Name    string `gorm:"column:name;type:varchar(255)"`
	Rank    string `gorm:"column:rank;type:varchar(50)"`

	// RankLevel is fractional because the two half-levels are stored
	// as 33.5 and 34.5 in snapshots.
	RankLevel  float64 `gorm:"column:rankLevel"`
	CommonName string  `gorm:"column:commonName;type:varchar(255)"`

	TaxonActive bool `gorm:"column:taxonActive;default:true"`

	ParentID        *int     `gorm:"column:immediateAncestor_taxonID;index"`
	ParentRankLevel *float64 `gorm:"column:immediateAncestor_rankLevel"`
	MajorParentID   *int     `gorm:"column:immediateMajorAncestor_taxonID"`
	MajorParentRank *float64 `gorm:"column:immediateMajorAncestor_rankLevel"`
}

// TableName sets the exact table name for GORM.
func (ExpandedTaxon) TableName() string { return "expanded_taxa" }

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&ExpandedTaxon{},
	}
}
