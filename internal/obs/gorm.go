package obs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormSpanKey   = "catalog:gorm:span"
	gormTimingKey = "catalog:gorm:timing"
)

// RegisterGORMCallbacks traces every query, create, update and delete issued
// through db and reports their duration as the "db" Server-Timing metric.
func RegisterGORMCallbacks(db *gorm.DB, tracer *Tracer) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("catalog:before_query", before(tracer, "db.query")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("catalog:after_query", after("SELECT")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("catalog:before_create", before(tracer, "db.create")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("catalog:after_create", after("INSERT")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("catalog:before_update", before(tracer, "db.update")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("catalog:after_update", after("UPDATE")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("catalog:before_delete", before(tracer, "db.delete")); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("catalog:after_delete", after("DELETE"))
}

func before(tracer *Tracer, spanName string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, span := tracer.StartSpan(ctx, spanName, attribute.String("db.system", db.Dialector.Name()))
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
		db.InstanceSet(gormTimingKey, StartTiming(ctx, "db", ""))
	}
}

func after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if stop, ok := db.InstanceGet(gormTimingKey); ok {
			if fn, ok := stop.(func()); ok {
				fn()
			}
		}
		v, ok := db.InstanceGet(gormSpanKey)
		if !ok {
			return
		}
		span, ok := v.(trace.Span)
		if !ok {
			return
		}
		span.SetAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", db.Statement.Table),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)
		EndSpan(span, db.Error)
	}
}
