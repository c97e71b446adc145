package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"agendapro-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := GenerateToken(cfg, userID, tenantID)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims["sub"])
	assert.Equal(t, tenantID.String(), claims["tenant_id"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, uuid.New(), uuid.New())
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "different-secret"
	_, err = ParseToken(other, token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := GenerateToken(cfg, uuid.New(), uuid.New())
	assert.Error(t, err)
}

func middlewareRequest(t *testing.T, cfg *config.Config, authorization, tenantHeader string) (*httptest.ResponseRecorder, uuid.UUID, TenantSource) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var gotTenant uuid.UUID
	var gotSource TenantSource

	r := gin.New()
	r.GET("/probe", AuthMiddleware(cfg), func(c *gin.Context) {
		gotTenant, _ = TenantFromContext(c)
		if v, ok := c.Get(ContextTenantSource); ok {
			gotSource = v.(TenantSource)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if tenantHeader != "" {
		req.Header.Set("X-Tenant-Id", tenantHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, gotTenant, gotSource
}

func TestAuthMiddlewareResolvesTenantFromClaim(t *testing.T) {
	cfg := testConfig()
	tenantID := uuid.New()
	token, err := GenerateToken(cfg, uuid.New(), tenantID)
	require.NoError(t, err)

	// Header carries a different tenant; the claim must win.
	w, gotTenant, gotSource := middlewareRequest(t, cfg, "Bearer "+token, uuid.New().String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, gotTenant)
	assert.Equal(t, TenantFromToken, gotSource)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	w, _, _ := middlewareRequest(t, testConfig(), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	w, _, _ := middlewareRequest(t, testConfig(), "Bearer not.a.token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFallbackTenantOnlyInDevelopment(t *testing.T) {
	devTenant := uuid.New()

	cfg := testConfig()
	cfg.DevTenantID = devTenant.String()

	cfg.Environment = "production"
	assert.Equal(t, uuid.Nil, cfg.FallbackTenantID())

	cfg.Environment = "development"
	assert.Equal(t, devTenant, cfg.FallbackTenantID())

	cfg.DevTenantID = ""
	assert.Equal(t, uuid.Nil, cfg.FallbackTenantID())
}
