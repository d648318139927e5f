package models

import "time"

// Policy is a tenant-scoped policy or procedure document, optionally attached
// to a single control.
type Policy struct {
	AuditEntity
	TenantID       string    `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	Description    string    `json:"description"`
	Content        string    `json:"content" gorm:"type:text"`
	Version        string    `json:"version" gorm:"default:'1.0'"`
	ControlID      *string   `json:"control_id,omitempty" gorm:"type:uuid"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	Owner          string    `json:"owner"`
	IsApproved     bool      `json:"is_approved"`

	Tenant  *Tenant  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Control *Control `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}
