package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/api/handlers"
	"github.com/grcworks/audittrail/internal/metrics"
)

// Register wires up API routes and the metrics endpoint.
func Register(router *gin.Engine, db *gorm.DB) error {
	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/api/v1/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	tenants := handlers.NewTenantHandler(db)
	api.GET("/tenants", tenants.List)
	api.GET("/tenants/:id", tenants.Get)
	api.POST("/tenants", tenants.Create)
	api.PUT("/tenants/:id", tenants.Update)
	api.DELETE("/tenants/:id", tenants.Delete)

	frameworks := handlers.NewFrameworkHandler(db)
	api.GET("/frameworks", frameworks.List)
	api.GET("/frameworks/:id", frameworks.Get)
	api.POST("/frameworks", frameworks.Create)
	api.PUT("/frameworks/:id", frameworks.Update)
	api.DELETE("/frameworks/:id", frameworks.Delete)
	api.GET("/frameworks/:id/controls", frameworks.Controls)
	api.POST("/frameworks/:id/controls", frameworks.LinkControl)

	controls := handlers.NewControlHandler(db)
	api.GET("/controls", controls.List)
	api.GET("/controls/:id", controls.Get)
	api.POST("/controls", controls.Create)
	api.PUT("/controls/:id", controls.Update)
	api.DELETE("/controls/:id", controls.Delete)

	risks := handlers.NewRiskHandler(db)
	api.GET("/risks", risks.List)
	api.GET("/risks/:id", risks.Get)
	api.POST("/risks", risks.Create)
	api.PUT("/risks/:id", risks.Update)
	api.DELETE("/risks/:id", risks.Delete)
	api.GET("/risks/:id/controls", risks.Controls)
	api.POST("/risks/:id/controls", risks.LinkControl)

	tasks := handlers.NewTaskHandler(db)
	api.GET("/tasks", tasks.List)
	api.GET("/tasks/:id", tasks.Get)
	api.POST("/tasks", tasks.Create)
	api.PUT("/tasks/:id", tasks.Update)
	api.POST("/tasks/:id/complete", tasks.Complete)
	api.DELETE("/tasks/:id", tasks.Delete)
	api.GET("/tasks/:id/notifications", tasks.Notifications)

	return nil
}
