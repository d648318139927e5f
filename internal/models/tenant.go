package models

// Tenant is the root of multi-tenancy: a company/organization owning its own
// users, frameworks, controls, policies, risks, vendors and tasks.
type Tenant struct {
	AuditEntity
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`
	TenantCode  string `json:"tenant_code" gorm:"size:50;not null;uniqueIndex"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}
