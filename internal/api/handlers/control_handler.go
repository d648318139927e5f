package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/services"
)

type ControlHandler struct {
	service *services.ControlService
}

func NewControlHandler(db *gorm.DB) *ControlHandler {
	return &ControlHandler{service: services.NewControlService(db)}
}

// List handles GET /api/v1/controls?tenant_id=...
func (h *ControlHandler) List(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	controls, err := h.service.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	page, size := pageParams(c)
	c.JSON(http.StatusOK, paginate(controls, page, size))
}

// Get handles GET /api/v1/controls/:id
func (h *ControlHandler) Get(c *gin.Context) {
	control, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrControlNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "control not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, control)
}

// Create handles POST /api/v1/controls
func (h *ControlHandler) Create(c *gin.Context) {
	var control models.Control
	if err := c.ShouldBindJSON(&control); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Create(&control); err != nil {
		if errors.Is(err, services.ErrControlCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "control code already in use"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, control)
}

// Update handles PUT /api/v1/controls/:id
func (h *ControlHandler) Update(c *gin.Context) {
	var updates models.Control
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control, err := h.service.Update(c.Param("id"), &updates)
	if err != nil {
		if errors.Is(err, services.ErrControlNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "control not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, control)
}

// Delete handles DELETE /api/v1/controls/:id
func (h *ControlHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrControlNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "control not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
