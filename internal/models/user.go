package models

import "golang.org/x/crypto/bcrypt"

// User represents a person within a tenant. Email is unique per tenant, not
// globally.
type User struct {
	AuditEntity
	TenantID     string `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_users_tenant_email"`
	Email        string `json:"email" gorm:"size:255;not null;uniqueIndex:idx_users_tenant_email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"` // Never serialize password hash
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Role is a tenant-scoped set of permissions users can be assigned to.
type Role struct {
	AuditEntity
	TenantID    string `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`

	Tenant *Tenant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// UserRole is the User<->Role junction. Composite key, no audit envelope.
type UserRole struct {
	UserID string `json:"user_id" gorm:"type:uuid;primaryKey"`
	RoleID string `json:"role_id" gorm:"type:uuid;primaryKey"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Role *Role `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
