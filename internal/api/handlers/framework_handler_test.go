package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grcworks/audittrail/internal/database"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	router := gin.New()
	tenants := NewTenantHandler(db)
	router.POST("/api/v1/tenants", tenants.Create)
	router.GET("/api/v1/tenants", tenants.List)

	frameworks := NewFrameworkHandler(db)
	router.POST("/api/v1/frameworks", frameworks.Create)
	router.GET("/api/v1/frameworks/:id", frameworks.Get)
	router.PUT("/api/v1/frameworks/:id", frameworks.Update)
	router.DELETE("/api/v1/frameworks/:id", frameworks.Delete)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFrameworkEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/tenants", TenantDTO{
		Name:       "Acme Corporation",
		TenantCode: "ACME",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var tenant TenantDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tenant))
	require.NotEmpty(t, tenant.ID)

	var framework FrameworkDTO
	t.Run("create defaults the version", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/frameworks", FrameworkDTO{
			TenantID: tenant.ID,
			Name:     "SOC 2",
			Code:     "SOC2",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &framework))
		assert.Equal(t, "1.0", framework.Version)
		assert.True(t, framework.IsActive)
	})

	t.Run("duplicate code returns conflict", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/frameworks", FrameworkDTO{
			TenantID: tenant.ID,
			Name:     "SOC 2 copy",
			Code:     "SOC2",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get returns the stored framework", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/frameworks/"+framework.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got FrameworkDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "SOC 2", got.Name)
	})

	t.Run("update deactivates the framework", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/v1/frameworks/"+framework.ID, FrameworkDTO{
			Name:     "SOC 2",
			Code:     "SOC2",
			IsActive: false,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var got FrameworkDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.False(t, got.IsActive)
	})

	t.Run("delete then get yields 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/v1/frameworks/"+framework.ID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/v1/frameworks/"+framework.ID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTenantListPagination(t *testing.T) {
	router, _ := setupRouter(t)

	codes := []string{"ACME", "GLOBEX", "INITECH"}
	for _, code := range codes {
		w := doJSON(t, router, http.MethodPost, "/api/v1/tenants", TenantDTO{
			Name:       code + " Corp",
			TenantCode: code,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/tenants?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result PaginatedResult[TenantDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.PageNumber)
	assert.Len(t, result.Items, 1)
}
