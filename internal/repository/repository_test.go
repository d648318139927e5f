package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Tenant{}, &models.Framework{})
	require.NoError(t, err)

	return db
}

func TestRepository_AddAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	before := time.Now().UTC()
	framework := &models.Framework{
		TenantID: "tenant-1",
		Name:     "SOC 2",
		Code:     "SOC2",
		Version:  "1.0",
	}
	repo.Add(framework)

	t.Run("nothing durable before SaveChanges", func(t *testing.T) {
		got, err := repo.GetByID(framework.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	affected, err := repo.SaveChanges()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	t.Run("retrievable after commit with stamped envelope", func(t *testing.T) {
		got, err := repo.GetByID(framework.ID)
		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "SOC 2", got.Name)
		assert.Equal(t, "SOC2", got.Code)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.CreatedAt.Before(before))
		assert.Nil(t, got.ModifiedAt)
		assert.False(t, got.IsDeleted)
	})

	t.Run("absent id yields nil without error", func(t *testing.T) {
		got, err := repo.GetByID("no-such-id")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepository_UpdateStampsModifiedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	framework := repo.Add(&models.Framework{TenantID: "tenant-1", Name: "ISO 27001", Code: "ISO27001"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	framework.Name = "ISO/IEC 27001"
	repo.Update(framework)
	_, err = repo.SaveChanges()
	assert.NoError(t, err)

	got, err := repo.GetByID(framework.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ISO/IEC 27001", got.Name)
	assert.NotNil(t, got.ModifiedAt)
}

func TestRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	framework := repo.Add(&models.Framework{TenantID: "tenant-1", Name: "GDPR", Code: "GDPR"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	repo.Delete(framework)
	_, err = repo.SaveChanges()
	require.NoError(t, err)

	t.Run("hidden from standard reads", func(t *testing.T) {
		got, err := repo.GetByID(framework.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)

		all, err := repo.GetAll()
		assert.NoError(t, err)
		assert.Empty(t, all)

		exists, err := repo.Exists("code = ?", "GDPR")
		assert.NoError(t, err)
		assert.False(t, exists)

		count, err := repo.Count()
		assert.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("row survives for forensics", func(t *testing.T) {
		rows, err := repo.FindIncludingDeleted("id = ?", framework.ID)
		assert.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].IsDeleted)
		assert.NotNil(t, rows[0].DeletedAt)
	})

	t.Run("re-delete keeps the original deletion stamp", func(t *testing.T) {
		firstDeletedAt := *framework.DeletedAt
		time.Sleep(5 * time.Millisecond)

		repo.Delete(framework)
		_, err := repo.SaveChanges()
		assert.NoError(t, err)
		assert.True(t, framework.DeletedAt.Equal(firstDeletedAt))
	})
}

func TestRepository_DeleteByID(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	t.Run("missing id is a no-op", func(t *testing.T) {
		err := repo.DeleteByID("no-such-id")
		assert.NoError(t, err)

		affected, err := repo.SaveChanges()
		assert.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})

	t.Run("existing id is staged and deleted", func(t *testing.T) {
		framework := repo.Add(&models.Framework{TenantID: "tenant-1", Name: "HIPAA", Code: "HIPAA"})
		_, err := repo.SaveChanges()
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(framework.ID))
		_, err = repo.SaveChanges()
		require.NoError(t, err)

		got, err := repo.GetByID(framework.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRepository_FindAndSingleOrDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2", Code: "SOC2"})
	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "ISO 27001", Code: "ISO27001"})
	repo.Add(&models.Framework{TenantID: "tenant-2", Name: "SOC 2", Code: "SOC2"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	found, err := repo.Find("tenant_id = ?", "tenant-1")
	assert.NoError(t, err)
	assert.Len(t, found, 2)

	single, err := repo.SingleOrDefault("tenant_id = ? AND code = ?", "tenant-2", "SOC2")
	assert.NoError(t, err)
	require.NotNil(t, single)
	assert.Equal(t, "tenant-2", single.TenantID)

	none, err := repo.SingleOrDefault("code = ?", "PCI")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestRepository_TenantScopedUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2", Code: "SOC2"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	t.Run("duplicate code within tenant conflicts at commit", func(t *testing.T) {
		repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2 again", Code: "SOC2"})
		_, err := repo.SaveChanges()
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("same code under another tenant succeeds", func(t *testing.T) {
		repo.Add(&models.Framework{TenantID: "tenant-2", Name: "SOC 2", Code: "SOC2"})
		_, err := repo.SaveChanges()
		assert.NoError(t, err)
	})
}

func TestRepository_SaveChangesIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2", Code: "SOC2"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	// One valid insert batched with one conflicting insert: neither survives.
	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "PCI DSS", Code: "PCI"})
	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2 dup", Code: "SOC2"})
	_, err = repo.SaveChanges()
	assert.ErrorIs(t, err, ErrConflict)

	count, err := repo.Count()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	t.Run("failed batch is drained, retry commits nothing", func(t *testing.T) {
		affected, err := repo.SaveChanges()
		assert.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})
}

func TestSoftDeleteWhere(t *testing.T) {
	db := setupTestDB(t)
	repo := New[models.Framework](db)

	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "SOC 2", Code: "SOC2"})
	repo.Add(&models.Framework{TenantID: "tenant-1", Name: "ISO 27001", Code: "ISO27001"})
	repo.Add(&models.Framework{TenantID: "tenant-2", Name: "SOC 2", Code: "SOC2"})
	_, err := repo.SaveChanges()
	require.NoError(t, err)

	affected, err := SoftDeleteWhere[models.Framework](db, "tenant_id = ?", "tenant-1")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	remaining, err := repo.GetAll()
	assert.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tenant-2", remaining[0].TenantID)

	t.Run("already deleted rows are not re-stamped", func(t *testing.T) {
		affected, err := SoftDeleteWhere[models.Framework](db, "tenant_id = ?", "tenant-1")
		assert.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})
}
