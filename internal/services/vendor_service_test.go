package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grcworks/audittrail/internal/models"
)

func TestVendorService_Questionnaire(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVendorService(db)
	tenant := seedTenant(t, db, "ACME")

	vendor := &models.Vendor{TenantID: tenant.ID, Name: "CloudCo", RiskTier: models.RiskTierHigh}
	require.NoError(t, svc.Create(vendor))

	sheet := &models.VendorQuestionnaire{
		Title:    "Annual security review",
		IssuedAt: time.Now().UTC(),
		DueAt:    time.Now().UTC().AddDate(0, 1, 0),
		Status:   models.QuestionnaireStatusPending,
	}
	require.NoError(t, svc.IssueQuestionnaire(vendor.ID, sheet, []models.VendorQuestion{
		{Question: "Do you encrypt data at rest?", Type: models.QuestionTypeYesNo, IsRequired: true},
		{Question: "Describe your incident response process.", Type: models.QuestionTypeText},
		{Question: "Attach your SOC 2 report.", Type: models.QuestionTypeDocument, Sequence: 10},
	}))

	t.Run("questions come back in sequence", func(t *testing.T) {
		questions, err := svc.Questions(sheet.ID)
		require.NoError(t, err)
		require.Len(t, questions, 3)
		assert.Equal(t, 1, questions[0].Sequence)
		assert.Equal(t, 2, questions[1].Sequence)
		assert.Equal(t, 10, questions[2].Sequence)
	})

	t.Run("answer is recorded", func(t *testing.T) {
		questions, err := svc.Questions(sheet.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Answer(questions[0].ID, "yes"))

		questions, err = svc.Questions(sheet.ID)
		require.NoError(t, err)
		require.NotNil(t, questions[0].Answer)
		assert.Equal(t, "yes", *questions[0].Answer)
	})

	t.Run("issuing against an unknown vendor fails", func(t *testing.T) {
		err := svc.IssueQuestionnaire("no-such-vendor", &models.VendorQuestionnaire{Title: "x"}, nil)
		assert.ErrorIs(t, err, ErrVendorNotFound)
	})
}

func TestVendorService_AddRisk(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVendorService(db)
	tenant := seedTenant(t, db, "ACME")

	vendor := &models.Vendor{TenantID: tenant.ID, Name: "CloudCo"}
	require.NoError(t, svc.Create(vendor))

	risk := &models.VendorRisk{RiskDescription: "Subprocessor sprawl", Likelihood: 2, Impact: 4}
	require.NoError(t, svc.AddRisk(vendor.ID, risk))
	assert.Equal(t, 8, risk.RiskScore)

	err := svc.AddRisk(vendor.ID, &models.VendorRisk{Likelihood: 9, Impact: 1})
	assert.ErrorIs(t, err, ErrInvalidRiskScale)
}

func TestVendorService_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVendorService(db)
	tenant := seedTenant(t, db, "ACME")

	vendor := &models.Vendor{TenantID: tenant.ID, Name: "CloudCo"}
	require.NoError(t, svc.Create(vendor))

	sheet := &models.VendorQuestionnaire{Title: "Onboarding review"}
	require.NoError(t, svc.IssueQuestionnaire(vendor.ID, sheet, []models.VendorQuestion{
		{Question: "Where is data hosted?"},
	}))
	require.NoError(t, svc.AddRisk(vendor.ID, &models.VendorRisk{RiskDescription: "x", Likelihood: 1, Impact: 1}))

	require.NoError(t, svc.Delete(vendor.ID))

	_, err := svc.GetByID(vendor.ID)
	assert.ErrorIs(t, err, ErrVendorNotFound)

	questions, err := svc.Questions(sheet.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	var live int64
	require.NoError(t, db.Model(&models.VendorRisk{}).
		Where("vendor_id = ? AND is_deleted = ?", vendor.ID, false).Count(&live).Error)
	assert.EqualValues(t, 0, live)
}
