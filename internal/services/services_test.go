package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/database"
	"github.com/grcworks/audittrail/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, code string) *models.Tenant {
	tenant := &models.Tenant{Name: code + " Corp", TenantCode: code, IsActive: true}
	require.NoError(t, NewTenantService(db).Create(tenant))
	return tenant
}

func seedControl(t *testing.T, db *gorm.DB, tenantID, code string) *models.Control {
	control := &models.Control{TenantID: tenantID, Name: "Control " + code, Code: code}
	require.NoError(t, NewControlService(db).Create(control))
	return control
}
