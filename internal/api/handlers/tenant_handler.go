package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/models"
	"github.com/grcworks/audittrail/internal/services"
)

// TenantDTO is the transport-facing subset of tenant fields.
type TenantDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TenantCode  string `json:"tenant_code"`
	IsActive    bool   `json:"is_active"`
}

func toTenantDTO(t *models.Tenant) TenantDTO {
	return TenantDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		TenantCode:  t.TenantCode,
		IsActive:    t.IsActive,
	}
}

type TenantHandler struct {
	service *services.TenantService
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{service: services.NewTenantService(db)}
}

// List handles GET /api/v1/tenants
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dtos := make([]TenantDTO, 0, len(tenants))
	for i := range tenants {
		dtos = append(dtos, toTenantDTO(&tenants[i]))
	}
	page, size := pageParams(c)
	c.JSON(http.StatusOK, paginate(dtos, page, size))
}

// Get handles GET /api/v1/tenants/:id
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTenantDTO(tenant))
}

// Create handles POST /api/v1/tenants
func (h *TenantHandler) Create(c *gin.Context) {
	var req TenantDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant := models.Tenant{
		Name:        req.Name,
		Description: req.Description,
		TenantCode:  req.TenantCode,
		IsActive:    true,
	}
	if err := h.service.Create(&tenant); err != nil {
		if errors.Is(err, services.ErrTenantCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "tenant code already in use"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toTenantDTO(&tenant))
}

// Update handles PUT /api/v1/tenants/:id
func (h *TenantHandler) Update(c *gin.Context) {
	var req TenantDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.service.Update(c.Param("id"), &models.Tenant{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTenantDTO(tenant))
}

// Delete handles DELETE /api/v1/tenants/:id
func (h *TenantHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
