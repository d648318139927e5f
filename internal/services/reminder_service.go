package services

import (
	"fmt"
	"time"

	"github.com/containrrr/shoutrrr"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/logger"
	"github.com/grcworks/audittrail/internal/models"
)

// resendAfter suppresses repeat reminders for a task within this window.
const resendAfter = 24 * time.Hour

// ReminderService periodically scans for remediation tasks past their due
// date, records a TaskNotification per task and pushes the reminder to the
// configured shoutrrr destinations.
type ReminderService struct {
	db    *gorm.DB
	tasks *TaskService
	urls  []string
	cron  *cron.Cron
}

func NewReminderService(db *gorm.DB, notifyURLs []string) *ReminderService {
	return &ReminderService{
		db:    db,
		tasks: NewTaskService(db),
		urls:  notifyURLs,
		cron:  cron.New(),
	}
}

// Start schedules the scan on the given cron spec (e.g. "@hourly").
func (s *ReminderService) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return fmt.Errorf("schedule reminder scan: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running scan to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// Run performs one scan. It is exposed for manual triggering and tests.
func (s *ReminderService) Run() {
	now := time.Now().UTC()
	overdue, err := s.tasks.DueBefore(now)
	if err != nil {
		logger.Log().WithError(err).Error("reminder scan failed")
		return
	}

	for i := range overdue {
		task := &overdue[i]
		if s.recentlyNotified(task.ID, now) {
			continue
		}

		subject := fmt.Sprintf("Remediation task overdue: %s", task.Title)
		body := fmt.Sprintf("Task %q (priority %d) was due %s and is still %s.",
			task.Title, task.Priority, task.DueDate.Format(time.RFC3339), task.Status)

		if err := s.tasks.RecordNotification(task.ID, task.AssignedTo, subject, body); err != nil {
			logger.WithFields(map[string]interface{}{"task_id": task.ID}).
				WithError(err).Error("record task reminder")
			continue
		}

		for _, url := range s.urls {
			if err := shoutrrr.Send(url, subject); err != nil {
				logger.WithFields(map[string]interface{}{"task_id": task.ID}).
					WithError(err).Warn("send task reminder")
			}
		}
	}
}

func (s *ReminderService) recentlyNotified(taskID string, now time.Time) bool {
	var count int64
	err := s.db.Model(&models.TaskNotification{}).
		Where("task_id = ? AND sent_at > ?", taskID, now.Add(-resendAfter)).
		Count(&count).Error
	if err != nil {
		logger.Log().WithError(err).Warn("check reminder history")
		return true
	}
	return count > 0
}
