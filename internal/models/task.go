package models

import "time"

// TaskStatus is the lifecycle of a remediation task.
type TaskStatus int

const (
	TaskStatusOpen TaskStatus = iota
	TaskStatusInProgress
	TaskStatusInReview
	TaskStatusCompleted
	TaskStatusCancelled
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusOpen:
		return "open"
	case TaskStatusInProgress:
		return "in_progress"
	case TaskStatusInReview:
		return "in_review"
	case TaskStatusCompleted:
		return "completed"
	case TaskStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// TaskPriority ranks remediation urgency.
type TaskPriority int

const (
	TaskPriorityLow TaskPriority = iota
	TaskPriorityMedium
	TaskPriorityHigh
	TaskPriorityCritical
)

// RemediationTask tracks remediation work. Control and Risk references are
// nullable: tasks outlive the control/risk that spawned them (set-null on
// parent deletion).
type RemediationTask struct {
	AuditEntity
	TenantID       string       `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Title          string       `json:"title" gorm:"size:255;not null"`
	Description    string       `json:"description"`
	ControlID      *string      `json:"control_id,omitempty" gorm:"type:uuid"`
	RiskID         *string      `json:"risk_id,omitempty" gorm:"type:uuid"`
	AssignedTo     string       `json:"assigned_to"`
	Status         TaskStatus   `json:"status" gorm:"default:0"`
	Priority       TaskPriority `json:"priority" gorm:"default:1"`
	DueDate        time.Time    `json:"due_date"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	ExternalTaskID *string      `json:"external_task_id,omitempty"` // external ticketing reference

	Tenant  *Tenant  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Control *Control `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Risk    *Risk    `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// TaskNotification records a reminder sent for a task. Rows are append-only
// and cascade-deleted with the task.
type TaskNotification struct {
	AuditEntity
	TaskID         string    `json:"task_id" gorm:"type:uuid;not null;index"`
	RecipientEmail string    `json:"recipient_email"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body" gorm:"type:text"`
	SentAt         time.Time `json:"sent_at"`

	Task *RemediationTask `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
