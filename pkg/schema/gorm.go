package schema

import (
	"gorm.io/gorm"
)

// Migrate runs GORM AutoMigrate to create or update the core columns
// of the schema. The generated ancestry and path columns are applied
// separately by the schema manager.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
