package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/service"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type tokenStub map[string]*models.JWTClaims

func (s tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type readyFlag bool

func (r readyFlag) Ready() bool { return bool(r) }

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	final := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/users/:id", append(handlers, final)...)
	return r
}

func perform(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWT(t *testing.T) {
	tokens := tokenStub{"good": {UserID: "u1"}}
	r := newRouter(JWT(tokens))

	assert.Equal(t, http.StatusUnauthorized, perform(r, "/users/u1", ""))
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/users/u1", "Basic good"))
	assert.Equal(t, http.StatusUnauthorized, perform(r, "/users/u1", "Bearer bad"))
	assert.Equal(t, http.StatusOK, perform(r, "/users/u1", "bearer good"))
}

func TestRBAC(t *testing.T) {
	tokens := tokenStub{
		"admin":   {UserID: "a1", Roles: []models.UserRole{models.RoleTeacher, models.RoleAdmin}},
		"teacher": {UserID: "t1", Roles: []models.UserRole{models.RoleTeacher}},
	}
	adminOnly := newRouter(JWT(tokens), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, perform(adminOnly, "/users/t1", "Bearer admin"))
	assert.Equal(t, http.StatusForbidden, perform(adminOnly, "/users/t1", "Bearer teacher"))

	selfOrAdmin := newRouter(JWT(tokens), RBAC(string(models.RoleAdmin), Self))
	assert.Equal(t, http.StatusOK, perform(selfOrAdmin, "/users/t1", "Bearer teacher"))
	assert.Equal(t, http.StatusForbidden, perform(selfOrAdmin, "/users/a1", "Bearer teacher"))

	noClaims := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, perform(noClaims, "/users/t1", ""))
}

func TestRequireReady(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, perform(newRouter(RequireReady(readyFlag(false))), "/users/x", ""))
	assert.Equal(t, http.StatusOK, perform(newRouter(RequireReady(readyFlag(true))), "/users/x", ""))
}

type fixedVersion uint64

func (v fixedVersion) Version() uint64 { return uint64(v) }

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var meta map[string]interface{}
	r.Use(WithResponseMeta(fixedVersion(7)))
	r.GET("/x", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Header().Get(snapshotHeader))
	assert.Equal(t, true, meta[cacheHitKey])
	assert.Equal(t, uint64(7), meta[snapshotKey])
	assert.Contains(t, meta, "processing_time_ms")
}

func TestMetricsSkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(r, "/health", "")
	perform(r, "/users/u1", "")
	perform(r, "/missing", "")

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}
