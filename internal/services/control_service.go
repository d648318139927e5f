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
	ErrControlNotFound  = errors.New("control not found")
	ErrControlCodeTaken = errors.New("control code already in use for tenant")
)

type ControlService struct {
	db       *gorm.DB
	controls repository.Repository[models.Control]
}

func NewControlService(db *gorm.DB) *ControlService {
	return &ControlService{db: db, controls: repository.New[models.Control](db)}
}

// Create validates and persists a new control. Code is unique per tenant.
func (s *ControlService) Create(control *models.Control) error {
	if control.TenantID == "" || strings.TrimSpace(control.Name) == "" {
		return errors.New("tenant id and name are required")
	}

	taken, err := s.controls.Exists("tenant_id = ? AND code = ?", control.TenantID, control.Code)
	if err != nil {
		return err
	}
	if taken {
		return ErrControlCodeTaken
	}

	s.controls.Add(control)
	if _, err := s.controls.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrControlCodeTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a control by ID.
func (s *ControlService) GetByID(id string) (*models.Control, error) {
	control, err := s.controls.GetByID(id)
	if err != nil {
		return nil, err
	}
	if control == nil {
		return nil, ErrControlNotFound
	}
	return control, nil
}

// ListByTenant retrieves all controls owned by the tenant.
func (s *ControlService) ListByTenant(tenantID string) ([]models.Control, error) {
	return s.controls.Find("tenant_id = ?", tenantID)
}

// Update applies caller-editable fields to an existing control.
func (s *ControlService) Update(id string, updates *models.Control) (*models.Control, error) {
	control, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	control.Name = updates.Name
	control.Code = updates.Code
	control.Description = updates.Description
	control.Owner = updates.Owner
	control.Status = updates.Status
	control.CompliancePercentage = updates.CompliancePercentage

	s.controls.Update(control)
	if _, err := s.controls.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrControlCodeTaken
		}
		return nil, err
	}
	return control, nil
}

// Delete logically deletes the control and applies the relationship policy:
// owned evidence cascades, framework/risk mappings are removed, and tasks that
// referenced the control survive with the reference nulled.
func (s *ControlService) Delete(id string) error {
	control, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		controls := repository.New[models.Control](tx)
		controls.Delete(control)
		if _, err := controls.SaveChanges(); err != nil {
			return err
		}

		if _, err := repository.SoftDeleteWhere[models.Evidence](tx, "control_id = ?", id); err != nil {
			return err
		}
		if err := tx.Where("control_id = ?", id).Delete(&models.FrameworkControl{}).Error; err != nil {
			return err
		}
		if err := tx.Where("control_id = ?", id).Delete(&models.RiskControl{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RemediationTask{}).Where("control_id = ?", id).
			Update("control_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.Policy{}).Where("control_id = ?", id).
			Update("control_id", nil).Error
	})
	if err != nil {
		return fmt.Errorf("delete control: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}
