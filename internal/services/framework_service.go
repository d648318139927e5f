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
	ErrFrameworkNotFound  = errors.New("framework not found")
	ErrFrameworkCodeTaken = errors.New("framework code already in use for tenant")
)

type FrameworkService struct {
	db         *gorm.DB
	frameworks repository.Repository[models.Framework]
}

func NewFrameworkService(db *gorm.DB) *FrameworkService {
	return &FrameworkService{db: db, frameworks: repository.New[models.Framework](db)}
}

// Create validates and persists a new framework. Code is unique per tenant;
// Version defaults to "1.0".
func (s *FrameworkService) Create(framework *models.Framework) error {
	if framework.TenantID == "" || strings.TrimSpace(framework.Name) == "" {
		return errors.New("tenant id and name are required")
	}
	if framework.Version == "" {
		framework.Version = "1.0"
	}

	taken, err := s.frameworks.Exists("tenant_id = ? AND code = ?", framework.TenantID, framework.Code)
	if err != nil {
		return err
	}
	if taken {
		return ErrFrameworkCodeTaken
	}

	s.frameworks.Add(framework)
	if _, err := s.frameworks.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrFrameworkCodeTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a framework by ID.
func (s *FrameworkService) GetByID(id string) (*models.Framework, error) {
	framework, err := s.frameworks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if framework == nil {
		return nil, ErrFrameworkNotFound
	}
	return framework, nil
}

// ListByTenant retrieves all frameworks owned by the tenant.
func (s *FrameworkService) ListByTenant(tenantID string) ([]models.Framework, error) {
	return s.frameworks.Find("tenant_id = ?", tenantID)
}

// Update applies caller-editable fields to an existing framework.
func (s *FrameworkService) Update(id string, updates *models.Framework) (*models.Framework, error) {
	framework, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	framework.Name = updates.Name
	framework.Code = updates.Code
	framework.Description = updates.Description
	framework.IsActive = updates.IsActive

	s.frameworks.Update(framework)
	if _, err := s.frameworks.SaveChanges(); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrFrameworkCodeTaken
		}
		return nil, err
	}
	return framework, nil
}

// Delete logically deletes the framework and removes its control mappings.
func (s *FrameworkService) Delete(id string) error {
	framework, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		frameworks := repository.New[models.Framework](tx)
		frameworks.Delete(framework)
		if _, err := frameworks.SaveChanges(); err != nil {
			return err
		}
		return tx.Where("framework_id = ?", id).Delete(&models.FrameworkControl{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete framework: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// LinkControl maps a control onto the framework with its requirement text and
// ordering sequence. Linking the same pair twice updates the mapping.
func (s *FrameworkService) LinkControl(frameworkID, controlID, requirement string, sequence int) error {
	if _, err := s.GetByID(frameworkID); err != nil {
		return err
	}

	controls := repository.New[models.Control](s.db)
	control, err := controls.GetByID(controlID)
	if err != nil {
		return err
	}
	if control == nil {
		return ErrControlNotFound
	}

	link := models.FrameworkControl{
		FrameworkID: frameworkID,
		ControlID:   controlID,
		Requirement: requirement,
		Sequence:    sequence,
	}
	return s.db.Save(&link).Error
}

// UnlinkControl removes a control mapping from the framework.
func (s *FrameworkService) UnlinkControl(frameworkID, controlID string) error {
	return s.db.Where("framework_id = ? AND control_id = ?", frameworkID, controlID).
		Delete(&models.FrameworkControl{}).Error
}

// Controls returns the framework's live controls ordered by mapping sequence.
func (s *FrameworkService) Controls(frameworkID string) ([]models.Control, error) {
	var controls []models.Control
	err := s.db.Model(&models.Control{}).
		Joins("JOIN framework_controls fc ON fc.control_id = controls.id").
		Where("fc.framework_id = ?", frameworkID).
		Scopes(repository.NotDeleted).
		Order("fc.sequence").
		Find(&controls).Error
	if err != nil {
		return nil, fmt.Errorf("list framework controls: %w", err)
	}
	return controls, nil
}
