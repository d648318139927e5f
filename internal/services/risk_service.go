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
	ErrRiskNotFound     = errors.New("risk not found")
	ErrInvalidRiskScale = errors.New("likelihood and impact must be between 1 and 5")
)

type RiskService struct {
	db    *gorm.DB
	risks repository.Repository[models.Risk]
}

func NewRiskService(db *gorm.DB) *RiskService {
	return &RiskService{db: db, risks: repository.New[models.Risk](db)}
}

// Create validates scales, derives the stored risk score and persists the
// register entry.
func (s *RiskService) Create(risk *models.Risk) error {
	if risk.TenantID == "" || strings.TrimSpace(risk.Title) == "" {
		return errors.New("tenant id and title are required")
	}
	if !validScale(risk.Likelihood) || !validScale(risk.Impact) {
		return ErrInvalidRiskScale
	}
	risk.RiskScore = risk.Likelihood * risk.Impact

	s.risks.Add(risk)
	_, err := s.risks.SaveChanges()
	return err
}

// GetByID retrieves a risk by ID.
func (s *RiskService) GetByID(id string) (*models.Risk, error) {
	risk, err := s.risks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if risk == nil {
		return nil, ErrRiskNotFound
	}
	return risk, nil
}

// ListByTenant retrieves all register entries owned by the tenant.
func (s *RiskService) ListByTenant(tenantID string) ([]models.Risk, error) {
	return s.risks.Find("tenant_id = ?", tenantID)
}

// Update applies caller-editable fields and re-derives the risk score.
func (s *RiskService) Update(id string, updates *models.Risk) (*models.Risk, error) {
	risk, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !validScale(updates.Likelihood) || !validScale(updates.Impact) {
		return nil, ErrInvalidRiskScale
	}

	risk.Title = updates.Title
	risk.Description = updates.Description
	risk.Owner = updates.Owner
	risk.Likelihood = updates.Likelihood
	risk.Impact = updates.Impact
	risk.RiskScore = updates.Likelihood * updates.Impact
	risk.Status = updates.Status
	risk.MitigationPlan = updates.MitigationPlan

	s.risks.Update(risk)
	if _, err := s.risks.SaveChanges(); err != nil {
		return nil, err
	}
	return risk, nil
}

// Delete logically deletes the risk: control mappings are removed, tasks that
// referenced the risk survive with the reference nulled.
func (s *RiskService) Delete(id string) error {
	risk, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		risks := repository.New[models.Risk](tx)
		risks.Delete(risk)
		if _, err := risks.SaveChanges(); err != nil {
			return err
		}
		if err := tx.Where("risk_id = ?", id).Delete(&models.RiskControl{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.RemediationTask{}).Where("risk_id = ?", id).
			Update("risk_id", nil).Error
	})
	if err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// LinkControl maps a mitigating control onto the risk.
func (s *RiskService) LinkControl(riskID, controlID string) error {
	if _, err := s.GetByID(riskID); err != nil {
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

	link := models.RiskControl{RiskID: riskID, ControlID: controlID}
	return s.db.Save(&link).Error
}

// Controls returns the live controls mitigating the risk.
func (s *RiskService) Controls(riskID string) ([]models.Control, error) {
	var controls []models.Control
	err := s.db.Model(&models.Control{}).
		Joins("JOIN risk_controls rc ON rc.control_id = controls.id").
		Where("rc.risk_id = ?", riskID).
		Scopes(repository.NotDeleted).
		Find(&controls).Error
	if err != nil {
		return nil, fmt.Errorf("list risk controls: %w", err)
	}
	return controls, nil
}

func validScale(v int) bool { return v >= 1 && v <= 5 }
