package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenant(t *testing.T) {
	s := newJWT()
	tenantID := uuid.New()

	r := gin.New()
	r.Use(JWTAuth(JWTConfig{Validator: s, SkipPaths: []string{"/open"}}), Tenant(DefaultTenantConfig()))
	echo := func(c *gin.Context) {
		id, err := GetTenantUUID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	}
	r.GET("/open", echo)
	r.GET("/api", echo)

	t.Run("tenant from token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issue(t, s, tenantID))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), w.Body.String())
	})

	t.Run("matching header is accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issue(t, s, tenantID))
		req.Header.Set(TenantHeaderKey, tenantID.String())
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header for another tenant is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issue(t, s, tenantID))
		req.Header.Set(TenantHeaderKey, uuid.NewString())
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("header without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(TenantHeaderKey, tenantID.String())
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID.String(), w.Body.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(TenantHeaderKey, "acme")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no tenant at all", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
