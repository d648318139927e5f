package models

// RiskStatus is the lifecycle of a risk register entry.
type RiskStatus int

const (
	RiskStatusOpen RiskStatus = iota
	RiskStatusInProgress
	RiskStatusMitigated
	RiskStatusClosed
)

// Risk is a tenant-scoped risk register entry. Likelihood and Impact are 1-5;
// RiskScore is derived from them and stored.
type Risk struct {
	AuditEntity
	TenantID       string     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Title          string     `json:"title" gorm:"size:255;not null"`
	Description    string     `json:"description"`
	Owner          string     `json:"owner"`
	Likelihood     int        `json:"likelihood"`
	Impact         int        `json:"impact"`
	RiskScore      int        `json:"risk_score"`
	Status         RiskStatus `json:"status" gorm:"default:0"`
	MitigationPlan string     `json:"mitigation_plan"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// RiskControl links risks to mitigating controls. Composite key, no audit
// envelope.
type RiskControl struct {
	RiskID    string `json:"risk_id" gorm:"type:uuid;primaryKey"`
	ControlID string `json:"control_id" gorm:"type:uuid;primaryKey"`

	Risk    *Risk    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Control *Control `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
