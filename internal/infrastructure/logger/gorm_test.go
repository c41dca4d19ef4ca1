package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func statement() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("errors except missing rows", func(t *testing.T) {
		base, logs := observed()
		l := NewGormLogger(base, "error", 0)

		l.Trace(ctx, time.Now(), statement, gormlogger.ErrRecordNotFound)
		assert.Zero(t, logs.Len())

		l.Trace(ctx, time.Now(), statement, errors.New("connection reset"))
		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	})

	t.Run("slow statements at warn", func(t *testing.T) {
		base, logs := observed()
		l := NewGormLogger(base, "warn", 10*time.Millisecond)

		l.Trace(ctx, time.Now(), statement, nil)
		assert.Zero(t, logs.Len())

		l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
		assert.Equal(t, 1, logs.FilterMessage("slow sql").Len())
	})

	t.Run("silent", func(t *testing.T) {
		base, logs := observed()
		l := NewGormLogger(base, "silent", time.Millisecond)

		l.Trace(ctx, time.Now().Add(-time.Second), statement, errors.New("x"))
		assert.Zero(t, logs.Len())
	})

	t.Run("request logger fields", func(t *testing.T) {
		base, logs := observed()
		l := NewGormLogger(zap.NewNop(), "info", 0)
		reqCtx := WithRequestID(WithContext(ctx, base), "req-9")

		l.Trace(reqCtx, time.Now(), statement, nil)
		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "gorm", entries[0].LoggerName)
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	base, logs := observed()
	l := NewGormLogger(base, "silent", 0)

	l.LogMode(gormlogger.Info).Info(context.Background(), "migrated %d tables", 3)
	l.Info(context.Background(), "ignored")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "migrated 3 tables", entries[0].Message)
}
