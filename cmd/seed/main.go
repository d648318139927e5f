package main

import (
	"fmt"
	"log"
	"time"

	"github.com/grcworks/audittrail/internal/database"
	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/services"
)

func main() {
	db, err := database.Open("./data/audittrail.db")
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	tenants := services.NewTenantService(db)
	tenant := models.Tenant{
		Name:        "Acme Corporation",
		Description: "Demo tenant",
		TenantCode:  "ACME",
		IsActive:    true,
	}
	if err := tenants.Create(&tenant); err != nil {
		log.Fatal("Failed to seed tenant:", err)
	}

	frameworks := services.NewFrameworkService(db)
	framework := models.Framework{
		TenantID:    tenant.ID,
		Name:        "SOC 2",
		Code:        "SOC2",
		Description: "SOC 2 Type II trust services criteria",
	}
	if err := frameworks.Create(&framework); err != nil {
		log.Fatal("Failed to seed framework:", err)
	}

	controls := services.NewControlService(db)
	seedControls := []models.Control{
		{TenantID: tenant.ID, Name: "Access Control Policy", Code: "CC6.1", Owner: "Security", Status: models.ControlStatusInProgress},
		{TenantID: tenant.ID, Name: "Change Management", Code: "CC8.1", Owner: "Engineering"},
		{TenantID: tenant.ID, Name: "Vendor Management", Code: "CC9.2", Owner: "Compliance"},
	}
	for i := range seedControls {
		if err := controls.Create(&seedControls[i]); err != nil {
			log.Fatal("Failed to seed control:", err)
		}
		if err := frameworks.LinkControl(framework.ID, seedControls[i].ID, seedControls[i].Name, i+1); err != nil {
			log.Fatal("Failed to link control:", err)
		}
	}

	risks := services.NewRiskService(db)
	risk := models.Risk{
		TenantID:   tenant.ID,
		Title:      "Unreviewed third-party access",
		Owner:      "Security",
		Likelihood: 3,
		Impact:     4,
	}
	if err := risks.Create(&risk); err != nil {
		log.Fatal("Failed to seed risk:", err)
	}

	tasks := services.NewTaskService(db)
	task := models.RemediationTask{
		TenantID:   tenant.ID,
		Title:      "Review third-party access grants",
		RiskID:     &risk.ID,
		AssignedTo: "security@acme.example",
		Priority:   models.TaskPriorityHigh,
		DueDate:    time.Now().UTC().AddDate(0, 0, 14),
	}
	if err := tasks.Create(&task); err != nil {
		log.Fatal("Failed to seed task:", err)
	}

	fmt.Printf("✓ Seeded tenant %s with framework %s, %d controls, 1 risk, 1 task\n",
		tenant.TenantCode, framework.Code, len(seedControls))
}
