package models

import "time"

// EvidenceStatus is the review lifecycle of an evidence record.
type EvidenceStatus int

const (
	EvidenceStatusPending EvidenceStatus = iota
	EvidenceStatusApproved
	EvidenceStatusRejected
	EvidenceStatusUnderReview
)

// Evidence supports control compliance. It belongs to exactly one control and
// optionally one policy; deleting the policy nulls the reference, deleting the
// control cascades.
type Evidence struct {
	AuditEntity
	TenantID      string         `json:"tenant_id" gorm:"type:uuid;not null;index"`
	ControlID     string         `json:"control_id" gorm:"type:uuid;not null;index"`
	PolicyID      *string        `json:"policy_id,omitempty" gorm:"type:uuid"`
	Title         string         `json:"title" gorm:"size:255;not null"`
	Description   string         `json:"description"`
	FileURL       string         `json:"file_url"`
	FileType      string         `json:"file_type"`
	FileSizeBytes int            `json:"file_size_bytes"`
	EvidenceDate  time.Time      `json:"evidence_date"`
	Status        EvidenceStatus `json:"status" gorm:"default:0"`
	ApprovedBy    *string        `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`

	Tenant  *Tenant  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Control *Control `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Policy  *Policy  `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// EvidenceAuditLog records one discrete change event on an evidence record.
// Rows are append-only and are never soft-deleted.
type EvidenceAuditLog struct {
	AuditEntity
	EvidenceID string `json:"evidence_id" gorm:"type:uuid;not null;index"`
	Action     string `json:"action"`
	Details    string `json:"details" gorm:"type:text"`
	ChangedBy  string `json:"changed_by"`

	Evidence *Evidence `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
