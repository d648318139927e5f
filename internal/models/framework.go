package models

// ControlStatus tracks implementation progress of a control.
type ControlStatus int

const (
	ControlStatusNotStarted ControlStatus = iota
	ControlStatusInProgress
	ControlStatusCompleted
	ControlStatusFailed
	ControlStatusArchived
)

func (s ControlStatus) String() string {
	switch s {
	case ControlStatusNotStarted:
		return "not_started"
	case ControlStatusInProgress:
		return "in_progress"
	case ControlStatusCompleted:
		return "completed"
	case ControlStatusFailed:
		return "failed"
	case ControlStatusArchived:
		return "archived"
	}
	return "unknown"
}

// Framework is a compliance framework (SOC 2, ISO 27001, GDPR, ...) scoped to
// one tenant. Code is unique per tenant.
type Framework struct {
	AuditEntity
	TenantID    string `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_frameworks_tenant_code"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Code        string `json:"code" gorm:"size:50;not null;uniqueIndex:idx_frameworks_tenant_code"`
	Description string `json:"description"`
	Version     string `json:"version" gorm:"default:'1.0'"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Control is an entry in the tenant's unified control library. Code is unique
// per tenant; the same control can satisfy requirements of many frameworks.
type Control struct {
	AuditEntity
	TenantID             string        `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_controls_tenant_code"`
	Name                 string        `json:"name" gorm:"size:255;not null"`
	Code                 string        `json:"code" gorm:"size:50;not null;uniqueIndex:idx_controls_tenant_code"`
	Description          string        `json:"description"`
	Owner                string        `json:"owner"`
	Status               ControlStatus `json:"status" gorm:"default:0"`
	CompliancePercentage int           `json:"compliance_percentage" gorm:"default:0"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// FrameworkControl maps a control to a framework requirement. Composite key,
// no audit envelope; Sequence orders controls within the framework.
type FrameworkControl struct {
	FrameworkID string `json:"framework_id" gorm:"type:uuid;primaryKey"`
	ControlID   string `json:"control_id" gorm:"type:uuid;primaryKey"`
	Requirement string `json:"requirement"`
	Sequence    int    `json:"sequence"`

	Framework *Framework `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Control   *Control   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
