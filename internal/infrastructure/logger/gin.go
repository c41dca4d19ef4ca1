package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog puts a request logger into the request context and writes one
// entry per request once it completes. Register it first so later middleware
// can tag the logger with request, tenant and trace ids.
func AccessLog(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		l := FromContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("request completed", fields...)
		default:
			l.Info("request completed", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it on the request logger.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l, ok := lookup(c.Request.Context())
				if !ok {
					l = base
				}
				l.Error("panic recovered", zap.Any("panic", rec), zap.Stack("stacktrace"))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
