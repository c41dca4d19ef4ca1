package middleware

import (
	"context"
	"strings"

	"github.com/erp/ecocare/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches route, method, resource and tenant labels to the
// profiles sampled while the request is served. Place it after Tenant.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelResource: resourceOf(route),
			telemetry.ProfilingLabelTenantID: c.GetString(TenantIDKey),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceOf returns the resource segment of an /api/v1/<domain>/<resource> route.
func resourceOf(route string) string {
	parts := strings.Split(strings.TrimPrefix(route, "/api/v1/"), "/")
	if len(parts) < 2 || strings.HasPrefix(parts[1], ":") {
		return parts[0]
	}
	return parts[1]
}
