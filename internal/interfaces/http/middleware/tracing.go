package middleware

import (
	"net/http"

	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/erp/ecocare/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin. When disabled it is a pass-through.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// TraceLogFields tags the request logger with the trace and span ids of the
// server span. Place it right after Tracing.
func TraceLogFields() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithTraceContext(c.Request.Context()))
		c.Next()
	}
}

// SpanAttributes adds request, tenant and user ids to the server span and
// marks 4xx/5xx responses as errors. Place it after JWTAuth and Tenant.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String(telemetry.SpanAttrRequestID, id))
		}
		if id := c.GetString(TenantIDKey); id != "" {
			span.SetAttributes(attribute.String(telemetry.SpanAttrTenantID, id))
		}
		if id := GetJWTUserID(c); id != "" {
			span.SetAttributes(attribute.String("user_id", id))
		}

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
