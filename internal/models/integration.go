package models

import "time"

// Integration holds connection details for an external system (AWS, Okta,
// Jira, ...). Configuration is a free-form JSON blob.
type Integration struct {
	AuditEntity
	TenantID        string     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name            string     `json:"name" gorm:"size:255;not null"`
	IntegrationType string     `json:"integration_type"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	APIKey          *string    `json:"-"`
	SecretKey       *string    `json:"-"`
	Configuration   *string    `json:"configuration,omitempty" gorm:"type:text"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// IntegrationEvent records an inbound event from an integration and whether it
// has been processed. Cascade-deleted with the integration.
type IntegrationEvent struct {
	AuditEntity
	IntegrationID string     `json:"integration_id" gorm:"type:uuid;not null;index"`
	EventType     string     `json:"event_type"`
	EventData     string     `json:"event_data" gorm:"type:text"`
	Processed     bool       `json:"processed" gorm:"default:false"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`

	Integration *Integration `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
