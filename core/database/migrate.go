package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables for the given models, in order.
func Migrate(db *gorm.DB, models ...any) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
