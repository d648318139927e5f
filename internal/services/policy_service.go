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

var ErrPolicyNotFound = errors.New("policy not found")

type PolicyService struct {
	db       *gorm.DB
	policies repository.Repository[models.Policy]
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db, policies: repository.New[models.Policy](db)}
}

// Create validates and persists a new policy document.
func (s *PolicyService) Create(policy *models.Policy) error {
	if policy.TenantID == "" || strings.TrimSpace(policy.Title) == "" {
		return errors.New("tenant id and title are required")
	}
	if policy.Version == "" {
		policy.Version = "1.0"
	}

	s.policies.Add(policy)
	_, err := s.policies.SaveChanges()
	return err
}

// GetByID retrieves a policy by ID.
func (s *PolicyService) GetByID(id string) (*models.Policy, error) {
	policy, err := s.policies.GetByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, ErrPolicyNotFound
	}
	return policy, nil
}

// ListByTenant retrieves all policies owned by the tenant.
func (s *PolicyService) ListByTenant(tenantID string) ([]models.Policy, error) {
	return s.policies.Find("tenant_id = ?", tenantID)
}

// Approve marks the policy as approved.
func (s *PolicyService) Approve(id string) (*models.Policy, error) {
	policy, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	policy.IsApproved = true
	s.policies.Update(policy)
	if _, err := s.policies.SaveChanges(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Delete logically deletes the policy. Evidence attached to it survives with
// the policy reference nulled.
func (s *PolicyService) Delete(id string) error {
	policy, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		policies := repository.New[models.Policy](tx)
		policies.Delete(policy)
		if _, err := policies.SaveChanges(); err != nil {
			return err
		}
		return tx.Model(&models.Evidence{}).Where("policy_id = ?", id).
			Update("policy_id", nil).Error
	})
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}
