package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/services"
)

type RiskHandler struct {
	service *services.RiskService
}

func NewRiskHandler(db *gorm.DB) *RiskHandler {
	return &RiskHandler{service: services.NewRiskService(db)}
}

// List handles GET /api/v1/risks?tenant_id=...
func (h *RiskHandler) List(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	risks, err := h.service.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	page, size := pageParams(c)
	c.JSON(http.StatusOK, paginate(risks, page, size))
}

// Get handles GET /api/v1/risks/:id
func (h *RiskHandler) Get(c *gin.Context) {
	risk, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRiskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "risk not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, risk)
}

// Create handles POST /api/v1/risks
func (h *RiskHandler) Create(c *gin.Context) {
	var risk models.Risk
	if err := c.ShouldBindJSON(&risk); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Create(&risk); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, risk)
}

// Update handles PUT /api/v1/risks/:id
func (h *RiskHandler) Update(c *gin.Context) {
	var updates models.Risk
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	risk, err := h.service.Update(c.Param("id"), &updates)
	if err != nil {
		if errors.Is(err, services.ErrRiskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "risk not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, risk)
}

// Delete handles DELETE /api/v1/risks/:id
func (h *RiskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrRiskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "risk not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkControl handles POST /api/v1/risks/:id/controls
func (h *RiskHandler) LinkControl(c *gin.Context) {
	var req struct {
		ControlID string `json:"control_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.LinkControl(c.Param("id"), req.ControlID); err != nil {
		if errors.Is(err, services.ErrRiskNotFound) || errors.Is(err, services.ErrControlNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Controls handles GET /api/v1/risks/:id/controls
func (h *RiskHandler) Controls(c *gin.Context) {
	controls, err := h.service.Controls(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, controls)
}
