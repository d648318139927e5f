package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/repository"
)

func TestControlService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewControlService(db)
	tenant := seedTenant(t, db, "ACME")
	other := seedTenant(t, db, "GLOBEX")

	control := &models.Control{TenantID: tenant.ID, Name: "Access reviews", Code: "CC6.1"}
	require.NoError(t, svc.Create(control))

	t.Run("code unique per tenant", func(t *testing.T) {
		err := svc.Create(&models.Control{TenantID: tenant.ID, Name: "Duplicate", Code: "CC6.1"})
		assert.ErrorIs(t, err, ErrControlCodeTaken)

		err = svc.Create(&models.Control{TenantID: other.ID, Name: "Access reviews", Code: "CC6.1"})
		assert.NoError(t, err)
	})

	t.Run("status and compliance update", func(t *testing.T) {
		updated, err := svc.Update(control.ID, &models.Control{
			Name:                 control.Name,
			Code:                 control.Code,
			Status:               models.ControlStatusInProgress,
			CompliancePercentage: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ControlStatusInProgress, updated.Status)
		assert.Equal(t, 40, updated.CompliancePercentage)
	})
}

func TestControlService_DeletePolicy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewControlService(db)
	tenant := seedTenant(t, db, "ACME")
	control := seedControl(t, db, tenant.ID, "CC6.1")

	evidences := NewEvidenceService(db)
	evidence := &models.Evidence{TenantID: tenant.ID, ControlID: control.ID, Title: "Access review export"}
	require.NoError(t, evidences.Create(evidence, "alice"))

	frameworks := NewFrameworkService(db)
	framework := &models.Framework{TenantID: tenant.ID, Name: "SOC 2", Code: "SOC2"}
	require.NoError(t, frameworks.Create(framework))
	require.NoError(t, frameworks.LinkControl(framework.ID, control.ID, "Logical access", 1))

	risks := NewRiskService(db)
	risk := &models.Risk{TenantID: tenant.ID, Title: "Excessive access", Likelihood: 3, Impact: 3}
	require.NoError(t, risks.Create(risk))
	require.NoError(t, risks.LinkControl(risk.ID, control.ID))

	tasks := NewTaskService(db)
	task := &models.RemediationTask{
		TenantID:  tenant.ID,
		Title:     "Tighten access grants",
		ControlID: &control.ID,
		DueDate:   time.Now().AddDate(0, 0, 7),
	}
	require.NoError(t, tasks.Create(task))

	policies := NewPolicyService(db)
	policy := &models.Policy{TenantID: tenant.ID, Title: "Access policy", ControlID: &control.ID}
	require.NoError(t, policies.Create(policy))

	require.NoError(t, svc.Delete(control.ID))

	t.Run("control and owned evidence are hidden", func(t *testing.T) {
		_, err := svc.GetByID(control.ID)
		assert.ErrorIs(t, err, ErrControlNotFound)

		_, err = evidences.GetByID(evidence.ID)
		assert.ErrorIs(t, err, ErrEvidenceNotFound)

		rows, err := repository.New[models.Evidence](db).FindIncludingDeleted("id = ?", evidence.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].IsDeleted)
	})

	t.Run("framework and risk mappings are removed", func(t *testing.T) {
		controls, err := frameworks.Controls(framework.ID)
		require.NoError(t, err)
		assert.Empty(t, controls)

		mitigating, err := risks.Controls(risk.ID)
		require.NoError(t, err)
		assert.Empty(t, mitigating)
	})

	t.Run("tasks and policies survive with the reference nulled", func(t *testing.T) {
		got, err := tasks.GetByID(task.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ControlID)

		kept, err := policies.GetByID(policy.ID)
		require.NoError(t, err)
		assert.Nil(t, kept.ControlID)
	})
}
