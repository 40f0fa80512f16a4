package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func createIndexes(db *gorm.DB) error {
	// Consultation log, newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_consultations_time
		ON consultations(query_time)
	`).Error; err != nil {
		return err
	}

	// Consultation log by case
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_consultations_case
		ON consultations(case_number, success)
	`).Error; err != nil {
		return err
	}

	return nil
}
