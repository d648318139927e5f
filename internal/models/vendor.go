package models

import "time"

// RiskTier buckets vendors by inherent risk.
type RiskTier int

const (
	RiskTierLow RiskTier = iota
	RiskTierMedium
	RiskTierHigh
	RiskTierCritical
)

// QuestionnaireStatus is the lifecycle of a vendor questionnaire.
type QuestionnaireStatus int

const (
	QuestionnaireStatusDraft QuestionnaireStatus = iota
	QuestionnaireStatusPending
	QuestionnaireStatusInProgress
	QuestionnaireStatusCompleted
	QuestionnaireStatusApproved
)

// QuestionType is the answer format of a questionnaire question.
type QuestionType int

const (
	QuestionTypeText QuestionType = iota
	QuestionTypeMultipleChoice
	QuestionTypeYesNo
	QuestionTypeDocument
)

// Vendor is a third party a tenant does business with.
type Vendor struct {
	AuditEntity
	TenantID     string   `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name         string   `json:"name" gorm:"size:255;not null"`
	Description  string   `json:"description"`
	Services     string   `json:"services"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
	RiskTier     RiskTier `json:"risk_tier" gorm:"default:1"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// VendorQuestionnaire is a security assessment issued to a vendor.
type VendorQuestionnaire struct {
	AuditEntity
	VendorID    string              `json:"vendor_id" gorm:"type:uuid;not null;index"`
	Title       string              `json:"title" gorm:"size:255;not null"`
	Description string              `json:"description"`
	IssuedAt    time.Time           `json:"issued_at"`
	DueAt       time.Time           `json:"due_at"`
	Status      QuestionnaireStatus `json:"status" gorm:"default:1"`

	Vendor *Vendor `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// VendorQuestion is a single question within a questionnaire, ordered by
// Sequence.
type VendorQuestion struct {
	AuditEntity
	QuestionnaireID string       `json:"questionnaire_id" gorm:"type:uuid;not null;index"`
	Question        string       `json:"question" gorm:"not null"`
	Answer          *string      `json:"answer,omitempty"`
	Type            QuestionType `json:"type"`
	Sequence        int          `json:"sequence"`
	IsRequired      bool         `json:"is_required"`

	Questionnaire *VendorQuestionnaire `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// VendorRisk is a risk observed for a specific vendor, scored like register
// risks.
type VendorRisk struct {
	AuditEntity
	VendorID        string `json:"vendor_id" gorm:"type:uuid;not null;index"`
	RiskDescription string `json:"risk_description"`
	Likelihood      int    `json:"likelihood"`
	Impact          int    `json:"impact"`
	RiskScore       int    `json:"risk_score"`

	Vendor *Vendor `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
