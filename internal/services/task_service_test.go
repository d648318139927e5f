package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

func TestTaskService_Complete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService(db)
	tenant := seedTenant(t, db, "ACME")

	task := &models.RemediationTask{
		TenantID: tenant.ID,
		Title:    "Rotate credentials",
		Priority: models.TaskPriorityHigh,
		DueDate:  time.Now().AddDate(0, 0, 3),
	}
	require.NoError(t, svc.Create(task))

	done, err := svc.Complete(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
}

func TestTaskService_DueBefore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService(db)
	tenant := seedTenant(t, db, "ACME")
	now := time.Now().UTC()

	overdue := &models.RemediationTask{TenantID: tenant.ID, Title: "Overdue", DueDate: now.AddDate(0, 0, -2)}
	require.NoError(t, svc.Create(overdue))

	future := &models.RemediationTask{TenantID: tenant.ID, Title: "Future", DueDate: now.AddDate(0, 0, 5)}
	require.NoError(t, svc.Create(future))

	finished := &models.RemediationTask{TenantID: tenant.ID, Title: "Finished", DueDate: now.AddDate(0, 0, -5)}
	require.NoError(t, svc.Create(finished))
	_, err := svc.Complete(finished.ID)
	require.NoError(t, err)

	cancelled := &models.RemediationTask{
		TenantID: tenant.ID,
		Title:    "Cancelled",
		Status:   models.TaskStatusCancelled,
		DueDate:  now.AddDate(0, 0, -5),
	}
	require.NoError(t, svc.Create(cancelled))

	due, err := svc.DueBefore(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Overdue", due[0].Title)
}

func TestTaskService_Notifications(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTaskService(db)
	tenant := seedTenant(t, db, "ACME")

	task := &models.RemediationTask{TenantID: tenant.ID, Title: "Overdue", DueDate: time.Now().AddDate(0, 0, -1)}
	require.NoError(t, svc.Create(task))

	require.NoError(t, svc.RecordNotification(task.ID, "alice@acme.example", "Task overdue", "please act"))
	require.NoError(t, svc.RecordNotification(task.ID, "alice@acme.example", "Task still overdue", "please act"))

	notes, err := svc.Notifications(task.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	t.Run("unknown task is rejected", func(t *testing.T) {
		err := svc.RecordNotification("no-such-task", "x@y", "s", "b")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("delete cascades to notifications", func(t *testing.T) {
		require.NoError(t, svc.Delete(task.ID))

		notes, err := svc.Notifications(task.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)

		rows, err := repository.New[models.TaskNotification](db).
			FindIncludingDeleted("task_id = ?", task.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestReminderService_Run(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskService(db)
	tenant := seedTenant(t, db, "ACME")

	overdue := &models.RemediationTask{
		TenantID:   tenant.ID,
		Title:      "Expired certificates",
		AssignedTo: "ops@acme.example",
		DueDate:    time.Now().UTC().AddDate(0, 0, -1),
	}
	require.NoError(t, tasks.Create(overdue))

	current := &models.RemediationTask{
		TenantID: tenant.ID,
		Title:    "Not yet due",
		DueDate:  time.Now().UTC().AddDate(0, 0, 10),
	}
	require.NoError(t, tasks.Create(current))

	reminders := NewReminderService(db, nil)
	reminders.Run()

	t.Run("overdue task gets one reminder", func(t *testing.T) {
		notes, err := tasks.Notifications(overdue.ID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "ops@acme.example", notes[0].RecipientEmail)
		assert.Contains(t, notes[0].Subject, "Expired certificates")
	})

	t.Run("not yet due task is skipped", func(t *testing.T) {
		notes, err := tasks.Notifications(current.ID)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("rescan within the resend window does not duplicate", func(t *testing.T) {
		reminders.Run()
		notes, err := tasks.Notifications(overdue.ID)
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})
}
