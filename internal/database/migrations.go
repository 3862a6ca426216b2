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

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Grouped analytics reads
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_form_downloads_forum_state
		ON form_downloads(forum_type, state)
	`).Error; err != nil {
		return err
	}

	// Recent records listing
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_form_downloads_recent
		ON form_downloads(created_at DESC, id DESC)
	`).Error; err != nil {
		return err
	}

	return nil
}
