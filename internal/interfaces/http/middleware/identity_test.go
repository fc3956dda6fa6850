package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupIdentityRouter(cfg IdentityConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(IdentityWithConfig(cfg))
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": GetTenantID(c),
			"actor_id":  GetActorID(c),
		})
	})
	return r
}

func TestIdentity_TenantFromHeader(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())
	tenantID := uuid.New()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tenantID.String())
}

func TestIdentity_MissingTenantRejected(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Tenant identification required")
}

func TestIdentity_MalformedTenantRejected(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
}

func TestIdentity_SkipPathBypassesTenantCheck(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdentity_ActorExtracted(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())
	tenantID := uuid.New()
	actorID := uuid.New()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	req.Header.Set(ActorHeaderKey, actorID.String())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), actorID.String())
}

func TestIdentity_MalformedActorDropped(t *testing.T) {
	r := setupIdentityRouter(DefaultIdentityConfig())
	tenantID := uuid.New()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	req.Header.Set(ActorHeaderKey, "garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"actor_id":""`)
}

func TestIdentity_OptionalAllowsMissingTenant(t *testing.T) {
	cfg := DefaultIdentityConfig()
	cfg.Required = false
	r := setupIdentityRouter(cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/resource", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tenant_id":""`)
}

func TestGetTenantUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, err := GetTenantUUID(c)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	want := uuid.New()
	c.Set(TenantIDKey, want.String())
	id, err = GetTenantUUID(c)
	assert.NoError(t, err)
	assert.Equal(t, want, id)
}
