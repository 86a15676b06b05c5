package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/foundrr/foundrr-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Generated sites + payment state
		// =========================
		&types.Site{},
	)
}

// EnsureSiteIndexes adds the indexes gorm tags cannot express. The SQL is
// portable between Postgres and SQLite so tests run the same path.
func EnsureSiteIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_website_owner_created ON website(owner_user_id, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_website_owner_created: %w", err)
	}
	// The admin queue only ever reads submitted rows.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_website_submitted
		ON website(created_at)
		WHERE payment_status = 'submitted';
	`).Error; err != nil {
		return fmt.Errorf("create idx_website_submitted: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureSiteIndexes(s.db); err != nil {
		s.log.Error("Site index migration failed", "error", err)
		return err
	}
	return nil
}
