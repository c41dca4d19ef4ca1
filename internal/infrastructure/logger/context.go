package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := lookup(ctx); ok {
		return l
	}
	return zap.NewNop()
}

func lookup(ctx context.Context) (*zap.Logger, bool) {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	return l, ok && l != nil
}

// with adds fields to the logger in ctx. Without a logger ctx is unchanged.
func with(ctx context.Context, fields ...zap.Field) context.Context {
	l, ok := lookup(ctx)
	if !ok {
		return ctx
	}
	return WithContext(ctx, l.With(fields...))
}

// WithRequestID records the request id and tags the request logger with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	return with(ctx, zap.String("request_id", id))
}

// RequestID returns the id recorded by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithTenant tags the request logger with the tenant.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return with(ctx, zap.String("tenant_id", tenantID))
}

// WithUser tags the request logger with the authenticated user.
func WithUser(ctx context.Context, userID string) context.Context {
	return with(ctx, zap.String("user_id", userID))
}

// WithTraceContext tags the request logger with the trace and span ids of the
// active span. Without a valid span ctx is unchanged.
func WithTraceContext(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	return with(ctx,
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
