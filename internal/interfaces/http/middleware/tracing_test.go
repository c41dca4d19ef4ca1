package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceLogFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	var traceID string
	r := gin.New()
	r.Use(logger.AccessLog(zap.New(core)), RequestID())
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), "GET /")
		defer span.End()
		traceID = span.SpanContext().TraceID().String()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(TraceLogFields())
	r.GET("/", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	handled := logs.FilterMessage("handled").All()
	require.Len(t, handled, 1)
	fields := handled[0].ContextMap()
	assert.Equal(t, traceID, fields["trace_id"])
	assert.NotEmpty(t, fields["span_id"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), fields["request_id"])
}
