package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/metrics"
	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrTenantCodeTaken = errors.New("tenant code already in use")
)

type TenantService struct {
	db      *gorm.DB
	tenants repository.Repository[models.Tenant]
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db, tenants: repository.New[models.Tenant](db)}
}

// Create validates and persists a new tenant. TenantCode is globally unique.
func (s *TenantService) Create(tenant *models.Tenant) error {
	if strings.TrimSpace(tenant.Name) == "" || strings.TrimSpace(tenant.TenantCode) == "" {
		return errors.New("name and tenant code are required")
	}

	taken, err := s.tenants.Exists("tenant_code = ?", tenant.TenantCode)
	if err != nil {
		return err
	}
	if taken {
		return ErrTenantCodeTaken
	}

	s.tenants.Add(tenant)
	if _, err := s.tenants.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrTenantCodeTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (s *TenantService) GetByID(id string) (*models.Tenant, error) {
	tenant, err := s.tenants.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

// List retrieves all tenants.
func (s *TenantService) List() ([]models.Tenant, error) {
	return s.tenants.GetAll()
}

// Count returns the number of live tenants.
func (s *TenantService) Count() (int64, error) {
	return s.tenants.Count()
}

// Update applies caller-editable fields to an existing tenant.
func (s *TenantService) Update(id string, updates *models.Tenant) (*models.Tenant, error) {
	tenant, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	tenant.Name = updates.Name
	tenant.Description = updates.Description
	tenant.IsActive = updates.IsActive

	s.tenants.Update(tenant)
	if _, err := s.tenants.SaveChanges(); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Delete logically deletes the tenant and cascades to every tenant-owned
// collection in one transaction. Junction rows are left in place: their
// endpoints are hidden by the standing filter, and they are cleaned up when
// the owning entity is deleted directly.
func (s *TenantService) Delete(id string) error {
	tenant, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		tenants := repository.New[models.Tenant](tx)
		tenants.Delete(tenant)
		if _, err := tenants.SaveChanges(); err != nil {
			return err
		}

		if _, err := repository.SoftDeleteWhere[models.User](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Role](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Framework](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Control](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Policy](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Evidence](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Risk](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.RemediationTask](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Integration](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.IntegrationEvent](tx,
			"integration_id IN (SELECT id FROM integrations WHERE tenant_id = ?)", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.Vendor](tx, "tenant_id = ?", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.VendorQuestionnaire](tx,
			"vendor_id IN (SELECT id FROM vendors WHERE tenant_id = ?)", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.VendorQuestion](tx,
			"questionnaire_id IN (SELECT id FROM vendor_questionnaires WHERE vendor_id IN (SELECT id FROM vendors WHERE tenant_id = ?))", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.VendorRisk](tx,
			"vendor_id IN (SELECT id FROM vendors WHERE tenant_id = ?)", id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}
