package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables, dev only
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string
}

type queryStartKey struct{}

// DBTracingPlugin registers otelgorm and flags slow statements.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the otelgorm plugin and the slow query callbacks on db.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("ecocare:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("ecocare:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("ecocare:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("ecocare:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("ecocare:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("ecocare:before_raw", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Register("ecocare:slow_create", p.slowQuery) },
		func() error { return cb.Query().After("gorm:query").Register("ecocare:slow_query", p.slowQuery) },
		func() error { return cb.Update().After("gorm:update").Register("ecocare:slow_update", p.slowQuery) },
		func() error { return cb.Delete().After("gorm:delete").Register("ecocare:slow_delete", p.slowQuery) },
		func() error { return cb.Row().After("gorm:row").Register("ecocare:slow_row", p.slowQuery) },
		func() error { return cb.Raw().After("gorm:raw").Register("ecocare:slow_raw", p.slowQuery) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) slowQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed < p.config.SlowQueryThresh {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
	}
	p.logger.Warn("Slow database query",
		zap.String("table", db.Statement.Table),
		zap.Duration("duration", elapsed),
		zap.Int64("rows_affected", db.Statement.RowsAffected),
	)
}
