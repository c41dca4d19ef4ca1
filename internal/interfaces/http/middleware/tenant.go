package middleware

import (
	"net/http"

	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig holds configuration for tenant middleware
type TenantConfig struct {
	// HeaderEnabled accepts X-Tenant-ID when no JWT claim is present.
	HeaderEnabled bool
	SkipPaths     []string
	Required      bool
	Logger        *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/ready"},
		Required:      true,
	}
}

// Tenant resolves the tenant of the request. The JWT claim wins over the
// header; a header naming another tenant than the token is rejected.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path, cfg.SkipPaths, []string{"/swagger"}) {
			c.Next()
			return
		}

		tenantID := GetJWTTenantID(c)
		header := c.GetHeader(TenantHeaderKey)
		switch {
		case tenantID != "" && header != "" && header != tenantID:
			tenantRejected(c, cfg, header, "Tenant header does not match token")
			return
		case tenantID == "" && cfg.HeaderEnabled:
			tenantID = header
		}

		if tenantID == "" {
			if cfg.Required {
				tenantRejected(c, cfg, "", "Tenant identification required")
				return
			}
			c.Next()
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			tenantRejected(c, cfg, tenantID, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenant(c.Request.Context(), tenantID))
		c.Next()
	}
}

func tenantRejected(c *gin.Context, cfg TenantConfig, tenantID, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("tenant rejected",
			zap.String("tenant_id", tenantID),
			zap.String("reason", message),
		)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(c, "ERR_UNAUTHORIZED", message))
}

// GetTenantUUID retrieves the tenant resolved by Tenant.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(TenantIDKey))
}
