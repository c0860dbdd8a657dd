package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/storeops/opsdash-api/internal/models"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
	"github.com/storeops/opsdash-api/pkg/logger"
)

type verifierStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (v *verifierStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	return v.claims, v.err
}

func newProtectedRouter(verifier TokenVerifier, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", JWT(verifier), RequireRoles(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.ActorKey))
	})
	return router
}

func TestJWTMissingHeader(t *testing.T) {
	router := newProtectedRouter(&verifierStub{}, models.RoleAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	router := newProtectedRouter(&verifierStub{}, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization header")
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	verifier := &verifierStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	router := newProtectedRouter(verifier, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "bad", verifier.token)
}

func TestRequireRoles(t *testing.T) {
	verifier := &verifierStub{claims: &models.JWTClaims{UserID: "u-7", Role: models.RoleViewer}}

	router := newProtectedRouter(verifier, models.RoleAdmin, models.RoleReviewer)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer ok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	router = newProtectedRouter(verifier, models.RoleAdmin, models.RoleViewer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-7", rec.Body.String())
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(WithResponseMeta())
	var meta map[string]interface{}
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetMeta(c, "truncated", false)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
	assert.Equal(t, false, meta["truncated"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.NotContains(t, meta, "started_at")
}

func TestMetricsMiddlewareNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(nil))
	router.GET("/", func(c *gin.Context) { c.Error(errors.New("ignored")); c.Status(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAuditLogsSuccessfulRequestsOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogAuditSink(zap.New(core))

	claims := &models.JWTClaims{UserID: "u-1", Email: "lead@example.com", Role: models.RoleReviewer}
	router := gin.New()
	router.POST("/items/:id/status", JWT(&verifierStub{claims: claims}), Audit(sink, "status_update", "cleaning"), func(c *gin.Context) {
		if c.Param("id") == "404" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, id := range []string{"7", "404"} {
		req := httptest.NewRequest(http.MethodPost, "/items/"+id+"/status", nil)
		req.Header.Set("Authorization", "Bearer token")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.FilterLoggerName("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "status_update", fields["action"])
	assert.Equal(t, "cleaning", fields["resource"])
	assert.Equal(t, "7", fields["resource_id"])
	assert.Equal(t, "lead@example.com", fields["actor"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
}

func TestAuditWithoutSinkPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", Audit(nil, "noop", "none"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
