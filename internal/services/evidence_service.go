package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/metrics"
	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

var ErrEvidenceNotFound = errors.New("evidence not found")

type EvidenceService struct {
	db       *gorm.DB
	evidence repository.Repository[models.Evidence]
}

func NewEvidenceService(db *gorm.DB) *EvidenceService {
	return &EvidenceService{db: db, evidence: repository.New[models.Evidence](db)}
}

// Create persists a new evidence record and appends the first audit log entry.
func (s *EvidenceService) Create(evidence *models.Evidence, actor string) error {
	if evidence.TenantID == "" || evidence.ControlID == "" || strings.TrimSpace(evidence.Title) == "" {
		return errors.New("tenant id, control id and title are required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		records := repository.New[models.Evidence](tx)
		records.Add(evidence)
		if _, err := records.SaveChanges(); err != nil {
			return err
		}
		return s.appendLog(tx, evidence.ID, "created", "evidence uploaded", actor)
	})
}

// GetByID retrieves an evidence record by ID.
func (s *EvidenceService) GetByID(id string) (*models.Evidence, error) {
	evidence, err := s.evidence.GetByID(id)
	if err != nil {
		return nil, err
	}
	if evidence == nil {
		return nil, ErrEvidenceNotFound
	}
	return evidence, nil
}

// ListByControl retrieves all evidence supporting the control.
func (s *EvidenceService) ListByControl(controlID string) ([]models.Evidence, error) {
	return s.evidence.Find("control_id = ?", controlID)
}

// Approve moves the evidence to Approved, stamps the approver and logs the
// change.
func (s *EvidenceService) Approve(id, approver string) (*models.Evidence, error) {
	return s.review(id, models.EvidenceStatusApproved, "approved", approver)
}

// Reject moves the evidence to Rejected and logs the change.
func (s *EvidenceService) Reject(id, reviewer string) (*models.Evidence, error) {
	return s.review(id, models.EvidenceStatusRejected, "rejected", reviewer)
}

func (s *EvidenceService) review(id string, status models.EvidenceStatus, action, actor string) (*models.Evidence, error) {
	evidence, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	evidence.Status = status
	if status == models.EvidenceStatusApproved {
		now := time.Now().UTC()
		evidence.ApprovedBy = &actor
		evidence.ApprovedAt = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		records := repository.New[models.Evidence](tx)
		records.Update(evidence)
		if _, err := records.SaveChanges(); err != nil {
			return err
		}
		return s.appendLog(tx, id, action, fmt.Sprintf("status changed to %d", status), actor)
	})
	if err != nil {
		return nil, err
	}
	return evidence, nil
}

// Delete logically deletes the evidence record. Its audit log rows are
// append-only and stay behind for forensics.
func (s *EvidenceService) Delete(id, actor string) error {
	evidence, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		records := repository.New[models.Evidence](tx)
		records.Delete(evidence)
		if _, err := records.SaveChanges(); err != nil {
			return err
		}
		return s.appendLog(tx, id, "deleted", "evidence logically deleted", actor)
	})
	if err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// History returns the evidence's change log, oldest first.
func (s *EvidenceService) History(id string) ([]models.EvidenceAuditLog, error) {
	var logs []models.EvidenceAuditLog
	err := s.db.Where("evidence_id = ?", id).Order("created_at").Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("evidence history: %w", err)
	}
	return logs, nil
}

func (s *EvidenceService) appendLog(tx *gorm.DB, evidenceID, action, details, actor string) error {
	log := models.EvidenceAuditLog{
		EvidenceID: evidenceID,
		Action:     action,
		Details:    details,
		ChangedBy:  actor,
	}
	return tx.Create(&log).Error
}
