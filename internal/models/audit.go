package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntity is the shared audit envelope embedded in every persisted entity.
// Deletion is logical: IsDeleted/DeletedAt are set and the row stays in storage
// so historical references and audit trails survive.
type AuditEntity struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  *string    `json:"created_by,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	ModifiedBy *string    `json:"modified_by,omitempty"`
	IsDeleted  bool       `json:"-" gorm:"index;default:false"`
	DeletedAt  *time.Time `json:"-"`
}

// Audit exposes the envelope for generic repository stamping.
func (e *AuditEntity) Audit() *AuditEntity { return e }

func (e *AuditEntity) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return
}

// Auditable constrains repository type parameters to entity kinds that carry
// the audit envelope.
type Auditable[T any] interface {
	*T
	Audit() *AuditEntity
}
