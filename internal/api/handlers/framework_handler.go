package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/services"
)

// FrameworkDTO is the transport-facing subset of framework fields.
type FrameworkDTO struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Version     string `json:"version"`
	IsActive    bool   `json:"is_active"`
}

func toFrameworkDTO(f *models.Framework) FrameworkDTO {
	return FrameworkDTO{
		ID:          f.ID,
		TenantID:    f.TenantID,
		Name:        f.Name,
		Code:        f.Code,
		Description: f.Description,
		Version:     f.Version,
		IsActive:    f.IsActive,
	}
}

type FrameworkHandler struct {
	service *services.FrameworkService
}

func NewFrameworkHandler(db *gorm.DB) *FrameworkHandler {
	return &FrameworkHandler{service: services.NewFrameworkService(db)}
}

// List handles GET /api/v1/frameworks?tenant_id=...
func (h *FrameworkHandler) List(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	frameworks, err := h.service.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dtos := make([]FrameworkDTO, 0, len(frameworks))
	for i := range frameworks {
		dtos = append(dtos, toFrameworkDTO(&frameworks[i]))
	}
	page, size := pageParams(c)
	c.JSON(http.StatusOK, paginate(dtos, page, size))
}

// Get handles GET /api/v1/frameworks/:id
func (h *FrameworkHandler) Get(c *gin.Context) {
	framework, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrFrameworkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "framework not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toFrameworkDTO(framework))
}

// Create handles POST /api/v1/frameworks
func (h *FrameworkHandler) Create(c *gin.Context) {
	var req FrameworkDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	framework := models.Framework{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Version:     req.Version,
		IsActive:    true,
	}
	if err := h.service.Create(&framework); err != nil {
		if errors.Is(err, services.ErrFrameworkCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "framework code already in use"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toFrameworkDTO(&framework))
}

// Update handles PUT /api/v1/frameworks/:id
func (h *FrameworkHandler) Update(c *gin.Context) {
	var req FrameworkDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	framework, err := h.service.Update(c.Param("id"), &models.Framework{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrFrameworkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "framework not found"})
			return
		}
		if errors.Is(err, services.ErrFrameworkCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "framework code already in use"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toFrameworkDTO(framework))
}

// Delete handles DELETE /api/v1/frameworks/:id
func (h *FrameworkHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrFrameworkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "framework not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// LinkControl handles POST /api/v1/frameworks/:id/controls
func (h *FrameworkHandler) LinkControl(c *gin.Context) {
	var req struct {
		ControlID   string `json:"control_id" binding:"required"`
		Requirement string `json:"requirement"`
		Sequence    int    `json:"sequence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.LinkControl(c.Param("id"), req.ControlID, req.Requirement, req.Sequence)
	if err != nil {
		if errors.Is(err, services.ErrFrameworkNotFound) || errors.Is(err, services.ErrControlNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Controls handles GET /api/v1/frameworks/:id/controls
func (h *FrameworkHandler) Controls(c *gin.Context) {
	controls, err := h.service.Controls(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, controls)
}
