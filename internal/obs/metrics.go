package obs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the service's metric instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	operationCount  metric.Int64Counter
}

// NewMetrics creates the instruments on mp. Instrument creation only fails on
// invalid names; the unnamed-option fallback keeps the instrument usable.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(InstrumentationName)
	m := &Metrics{}
	var err error

	m.requestDuration, err = meter.Float64Histogram(
		"catalog.http.request.duration",
		metric.WithDescription("Duration of HTTP requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.requestDuration, _ = meter.Float64Histogram("catalog.http.request.duration")
	}

	m.requestCount, err = meter.Int64Counter(
		"catalog.http.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.requestCount, _ = meter.Int64Counter("catalog.http.request.count")
	}

	m.operationCount, err = meter.Int64Counter(
		"catalog.operation.count",
		metric.WithDescription("Entity service operations by entity, operation and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		m.operationCount, _ = meter.Int64Counter("catalog.operation.count")
	}
	return m
}

// DefaultMetrics uses the globally registered MeterProvider.
func DefaultMetrics() *Metrics {
	return NewMetrics(otel.GetMeterProvider())
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.requestDuration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
	m.requestCount.Add(ctx, 1, attrs)
}

// RecordOperation counts one entity operation. outcome is "ok", "not_found"
// or "error".
func (m *Metrics) RecordOperation(ctx context.Context, entity, op, outcome string) {
	m.operationCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrEntity, entity),
		attribute.String(AttrOperation, op),
		attribute.String(AttrOutcome, outcome),
	))
}
