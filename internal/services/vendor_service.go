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
	ErrVendorNotFound        = errors.New("vendor not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
)

type VendorService struct {
	db      *gorm.DB
	vendors repository.Repository[models.Vendor]
}

func NewVendorService(db *gorm.DB) *VendorService {
	return &VendorService{db: db, vendors: repository.New[models.Vendor](db)}
}

// Create validates and persists a new vendor.
func (s *VendorService) Create(vendor *models.Vendor) error {
	if vendor.TenantID == "" || strings.TrimSpace(vendor.Name) == "" {
		return errors.New("tenant id and name are required")
	}

	s.vendors.Add(vendor)
	_, err := s.vendors.SaveChanges()
	return err
}

// GetByID retrieves a vendor by ID.
func (s *VendorService) GetByID(id string) (*models.Vendor, error) {
	vendor, err := s.vendors.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// ListByTenant retrieves all vendors owned by the tenant.
func (s *VendorService) ListByTenant(tenantID string) ([]models.Vendor, error) {
	return s.vendors.Find("tenant_id = ?", tenantID)
}

// Delete logically deletes the vendor and cascades to its questionnaires,
// their questions, and its recorded risks.
func (s *VendorService) Delete(id string) error {
	vendor, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		vendors := repository.New[models.Vendor](tx)
		vendors.Delete(vendor)
		if _, err := vendors.SaveChanges(); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.VendorQuestion](tx,
			"questionnaire_id IN (SELECT id FROM vendor_questionnaires WHERE vendor_id = ?)", id); err != nil {
			return err
		}
		if _, err := repository.SoftDeleteWhere[models.VendorQuestionnaire](tx, "vendor_id = ?", id); err != nil {
			return err
		}
		_, err := repository.SoftDeleteWhere[models.VendorRisk](tx, "vendor_id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// IssueQuestionnaire persists an assessment for the vendor along with its
// ordered questions.
func (s *VendorService) IssueQuestionnaire(vendorID string, questionnaire *models.VendorQuestionnaire, questions []models.VendorQuestion) error {
	if _, err := s.GetByID(vendorID); err != nil {
		return err
	}
	questionnaire.VendorID = vendorID

	return s.db.Transaction(func(tx *gorm.DB) error {
		sheets := repository.New[models.VendorQuestionnaire](tx)
		sheets.Add(questionnaire)
		if _, err := sheets.SaveChanges(); err != nil {
			return err
		}

		items := repository.New[models.VendorQuestion](tx)
		for i := range questions {
			questions[i].QuestionnaireID = questionnaire.ID
			if questions[i].Sequence == 0 {
				questions[i].Sequence = i + 1
			}
			items.Add(&questions[i])
		}
		_, err := items.SaveChanges()
		return err
	})
}

// Questions returns a questionnaire's live questions ordered by sequence.
func (s *VendorService) Questions(questionnaireID string) ([]models.VendorQuestion, error) {
	var questions []models.VendorQuestion
	err := s.db.Scopes(repository.NotDeleted).
		Where("questionnaire_id = ?", questionnaireID).
		Order("sequence").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Answer records the answer to one question.
func (s *VendorService) Answer(questionID, answer string) error {
	items := repository.New[models.VendorQuestion](s.db)
	question, err := items.GetByID(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionnaireNotFound
	}
	question.Answer = &answer
	items.Update(question)
	_, err = items.SaveChanges()
	return err
}

// AddRisk records a scored risk observation against the vendor.
func (s *VendorService) AddRisk(vendorID string, risk *models.VendorRisk) error {
	if _, err := s.GetByID(vendorID); err != nil {
		return err
	}
	if !validScale(risk.Likelihood) || !validScale(risk.Impact) {
		return ErrInvalidRiskScale
	}
	risk.VendorID = vendorID
	risk.RiskScore = risk.Likelihood * risk.Impact

	risks := repository.New[models.VendorRisk](s.db)
	risks.Add(risk)
	_, err := risks.SaveChanges()
	return err
}
