package telemetry

import (
	"context"
	"errors"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestProviders_DisabledAreNoOp(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.Same(t, logger, lp.Bridge(logger, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := NewProfiler(ProfilerConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "ecocare"}, zap.NewNop())
	assert.Error(t, err)
}

func TestStartServiceSpan_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartServiceSpan(context.Background(), "sale_order_request", "validate",
		SpanAttrLineCount, 3, SpanAttrFilter, "category")
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sale_order_request.validate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Attributes(), 2)
}

func TestLevelFilterCore(t *testing.T) {
	core := &levelFilterCore{Core: zapcore.NewNopCore(), minLevel: zapcore.WarnLevel}
	assert.False(t, core.Enabled(zapcore.InfoLevel))
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("no labels runs fn with the same context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), labelTestKey{}, "v")
		called := false
		WithProfilingLabels(ctx, map[string]string{"route": ""}, func(got context.Context) {
			called = true
			assert.Equal(t, ctx, got)
		})
		assert.True(t, called)
	})

	t.Run("labels are visible to pprof", func(t *testing.T) {
		labels := map[string]string{ProfilingLabelRoute: "/api/v1/trade/sale-order-requests/:id", ProfilingLabelMethod: "POST"}
		WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
			route, ok := pprof.Label(ctx, ProfilingLabelRoute)
			assert.True(t, ok)
			assert.Equal(t, "/api/v1/trade/sale-order-requests/:id", route)
		})
	})
}

type labelTestKey struct{}
