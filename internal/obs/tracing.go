package obs

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// InstrumentationName identifies this service's tracer and meter.
const InstrumentationName = "github.com/fairyhunter13/smartmarket-catalog"

// Semantic attribute keys.
const (
	AttrEntity    = "catalog.entity"
	AttrEntityKey = "catalog.entity_key"
	AttrOperation = "catalog.operation"
	AttrOutcome   = "catalog.outcome"
)

// Tracer wraps an OpenTelemetry tracer with catalog span helpers.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer from tp.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(InstrumentationName)}
}

// DefaultTracer uses the globally registered TracerProvider, which is a no-op
// until an SDK is installed.
func DefaultTracer() *Tracer {
	return NewTracer(otel.GetTracerProvider())
}

// StartSpan starts a span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartOperation starts a span for one entity service operation. id is
// recorded only when non-zero.
func (t *Tracer) StartOperation(ctx context.Context, entity, op string, id int64) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEntity, entity),
		attribute.String(AttrOperation, op),
	}
	if id != 0 {
		attrs = append(attrs, attribute.Int64(AttrEntityKey, id))
	}
	return t.tracer.Start(ctx, "catalog."+op, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it. Missing records are not
// failures.
func EndSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
