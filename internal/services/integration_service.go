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

var (
	ErrIntegrationNotFound      = errors.New("integration not found")
	ErrIntegrationEventNotFound = errors.New("integration event not found")
)

type IntegrationService struct {
	db           *gorm.DB
	integrations repository.Repository[models.Integration]
}

func NewIntegrationService(db *gorm.DB) *IntegrationService {
	return &IntegrationService{db: db, integrations: repository.New[models.Integration](db)}
}

// Create validates and persists a new integration.
func (s *IntegrationService) Create(integration *models.Integration) error {
	if integration.TenantID == "" || strings.TrimSpace(integration.Name) == "" {
		return errors.New("tenant id and name are required")
	}

	s.integrations.Add(integration)
	_, err := s.integrations.SaveChanges()
	return err
}

// GetByID retrieves an integration by ID.
func (s *IntegrationService) GetByID(id string) (*models.Integration, error) {
	integration, err := s.integrations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, ErrIntegrationNotFound
	}
	return integration, nil
}

// ListByTenant retrieves all integrations owned by the tenant.
func (s *IntegrationService) ListByTenant(tenantID string) ([]models.Integration, error) {
	return s.integrations.Find("tenant_id = ?", tenantID)
}

// Delete logically deletes the integration and cascades to its events.
func (s *IntegrationService) Delete(id string) error {
	integration, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		integrations := repository.New[models.Integration](tx)
		integrations.Delete(integration)
		if _, err := integrations.SaveChanges(); err != nil {
			return err
		}
		_, err := repository.SoftDeleteWhere[models.IntegrationEvent](tx, "integration_id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// RecordEvent stores an inbound event from the integration and stamps the
// last-sync time.
func (s *IntegrationService) RecordEvent(integrationID, eventType, eventData string) (*models.IntegrationEvent, error) {
	integration, err := s.GetByID(integrationID)
	if err != nil {
		return nil, err
	}

	event := models.IntegrationEvent{
		IntegrationID: integrationID,
		EventType:     eventType,
		EventData:     eventData,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		events := repository.New[models.IntegrationEvent](tx)
		events.Add(&event)
		if _, err := events.SaveChanges(); err != nil {
			return err
		}
		now := time.Now().UTC()
		integration.LastSyncAt = &now
		integrations := repository.New[models.Integration](tx)
		integrations.Update(integration)
		_, err := integrations.SaveChanges()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// MarkProcessed flags the event as handled.
func (s *IntegrationService) MarkProcessed(eventID string) error {
	events := repository.New[models.IntegrationEvent](s.db)
	event, err := events.GetByID(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrIntegrationEventNotFound
	}

	now := time.Now().UTC()
	event.Processed = true
	event.ProcessedAt = &now
	events.Update(event)
	_, err = events.SaveChanges()
	return err
}

// PendingEvents returns unprocessed events for the integration, oldest first.
func (s *IntegrationService) PendingEvents(integrationID string) ([]models.IntegrationEvent, error) {
	events := repository.New[models.IntegrationEvent](s.db)
	pending, err := events.Find("integration_id = ? AND processed = ?", integrationID, false)
	if err != nil {
		return nil, err
	}
	return pending, nil
}
