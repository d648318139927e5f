package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/metrics"
	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	db    *gorm.DB
	tasks repository.Repository[models.RemediationTask]
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, tasks: repository.New[models.RemediationTask](db)}
}

// Create validates and persists a new remediation task.
func (s *TaskService) Create(task *models.RemediationTask) error {
	if task.TenantID == "" || strings.TrimSpace(task.Title) == "" {
		return errors.New("tenant id and title are required")
	}

	s.tasks.Add(task)
	_, err := s.tasks.SaveChanges()
	return err
}

// GetByID retrieves a task by ID.
func (s *TaskService) GetByID(id string) (*models.RemediationTask, error) {
	task, err := s.tasks.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListByTenant retrieves all tasks owned by the tenant.
func (s *TaskService) ListByTenant(tenantID string) ([]models.RemediationTask, error) {
	return s.tasks.Find("tenant_id = ?", tenantID)
}

// Update applies caller-editable fields to an existing task.
func (s *TaskService) Update(id string, updates *models.RemediationTask) (*models.RemediationTask, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	task.Title = updates.Title
	task.Description = updates.Description
	task.AssignedTo = updates.AssignedTo
	task.Status = updates.Status
	task.Priority = updates.Priority
	task.DueDate = updates.DueDate
	task.ExternalTaskID = updates.ExternalTaskID

	s.tasks.Update(task)
	if _, err := s.tasks.SaveChanges(); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks the task done and stamps the completion time.
func (s *TaskService) Complete(id string) (*models.RemediationTask, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now

	s.tasks.Update(task)
	if _, err := s.tasks.SaveChanges(); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete logically deletes the task and cascades to its notifications.
func (s *TaskService) Delete(id string) error {
	task, err := s.GetByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		tasks := repository.New[models.RemediationTask](tx)
		tasks.Delete(task)
		if _, err := tasks.SaveChanges(); err != nil {
			return err
		}
		_, err := repository.SoftDeleteWhere[models.TaskNotification](tx, "task_id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	metrics.IncSoftDelete()
	return nil
}

// DueBefore returns live tasks not yet finished whose due date falls before t.
func (s *TaskService) DueBefore(t time.Time) ([]models.RemediationTask, error) {
	return s.tasks.Find("due_date < ? AND status NOT IN ?", t,
		[]models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusCancelled})
}

// RecordNotification appends a notification row for the task.
func (s *TaskService) RecordNotification(taskID, recipient, subject, body string) error {
	if _, err := s.GetByID(taskID); err != nil {
		return err
	}

	note := models.TaskNotification{
		TaskID:         taskID,
		RecipientEmail: recipient,
		Subject:        subject,
		Body:           body,
		SentAt:         time.Now().UTC(),
	}
	if err := s.db.Create(&note).Error; err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	metrics.IncReminder()
	return nil
}

// Notifications returns the task's notification history, newest first.
func (s *TaskService) Notifications(taskID string) ([]models.TaskNotification, error) {
	var notes []models.TaskNotification
	err := s.db.Scopes(repository.NotDeleted).
		Where("task_id = ?", taskID).
		Order("sent_at desc").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notes, nil
}
