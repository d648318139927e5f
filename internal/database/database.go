package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
)

// Open bootstraps a SQLite database at the provided filesystem path.
// TranslateError maps driver unique-violation errors onto gorm.ErrDuplicatedKey
// so the repository can classify commit conflicts.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite ships with referential integrity off.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate creates/updates the schema for every entity kind. Parents precede
// children so foreign-key constraints resolve.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Framework{},
		&models.Control{},
		&models.FrameworkControl{},
		&models.Policy{},
		&models.Evidence{},
		&models.EvidenceAuditLog{},
		&models.Risk{},
		&models.RiskControl{},
		&models.Vendor{},
		&models.VendorQuestionnaire{},
		&models.VendorQuestion{},
		&models.VendorRisk{},
		&models.RemediationTask{},
		&models.TaskNotification{},
		&models.Integration{},
		&models.IntegrationEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
