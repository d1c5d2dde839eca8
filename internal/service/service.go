// Package service orchestrates catalog operations over the persistence
// gateways. A Service never validates input: soft references stay soft.
package service

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
	"github.com/fairyhunter13/smartmarket-catalog/internal/store"
)

// Operation names used in spans, metrics, logs and wrapped errors.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Service runs the CRUD operations of one entity type.
type Service[T any] struct {
	name    string
	repo    store.Repository[T]
	tracer  *obs.Tracer
	metrics *obs.Metrics
}

// Option customises a Service.
type Option func(*options)

type options struct {
	tracer  *obs.Tracer
	metrics *obs.Metrics
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t *obs.Tracer) Option { return func(o *options) { o.tracer = t } }

// WithMetrics sets the metric instruments.
func WithMetrics(m *obs.Metrics) Option { return func(o *options) { o.metrics = m } }

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = obs.DefaultTracer()
	}
	if o.metrics == nil {
		o.metrics = obs.DefaultMetrics()
	}
	return o
}

// New returns a Service for the entity called name backed by repo.
func New[T any](name string, repo store.Repository[T], opts ...Option) *Service[T] {
	o := buildOptions(opts)
	return &Service[T]{name: name, repo: repo, tracer: o.tracer, metrics: o.metrics}
}

// Name returns the entity name the service was built for.
func (s *Service[T]) Name() string { return s.name }

func (s *Service[T]) finish(ctx context.Context, op string, found bool, err error) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case !found:
		outcome = "not_found"
	}
	s.metrics.RecordOperation(ctx, s.name, op, outcome)
}

func (s *Service[T]) wrap(op string, id int64, err error) error {
	if id == 0 {
		return fmt.Errorf("%s: %s: %w", s.name, op, err)
	}
	return fmt.Errorf("%s: %s %d: %w", s.name, op, id, err)
}

// List returns every record in store order.
func (s *Service[T]) List(ctx context.Context) (out []T, err error) {
	ctx, span := s.tracer.StartOperation(ctx, s.name, OpList, 0)
	defer obs.StartTiming(ctx, "service", s.name+"."+OpList)()
	defer func() { obs.EndSpan(span, err); s.finish(ctx, OpList, true, err) }()

	out, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.wrap(OpList, 0, err)
	}
	return out, nil
}

// Get returns the record with the given id. The bool is false when no such
// record exists; that is not an error.
func (s *Service[T]) Get(ctx context.Context, id int64) (rec T, found bool, err error) {
	ctx, span := s.tracer.StartOperation(ctx, s.name, OpGet, id)
	defer obs.StartTiming(ctx, "service", s.name+"."+OpGet)()
	defer func() { obs.EndSpan(span, err); s.finish(ctx, OpGet, found, err) }()

	rec, found, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return rec, false, s.wrap(OpGet, id, err)
	}
	return rec, found, nil
}

// Create persists rec as a new record. Any identity on rec is discarded; the
// store assigns a fresh one.
func (s *Service[T]) Create(ctx context.Context, rec T) (out T, err error) {
	ctx, span := s.tracer.StartOperation(ctx, s.name, OpCreate, 0)
	defer obs.StartTiming(ctx, "service", s.name+"."+OpCreate)()
	defer func() { obs.EndSpan(span, err); s.finish(ctx, OpCreate, true, err) }()

	clearKey(&rec)
	if err = s.repo.Save(ctx, &rec); err != nil {
		return out, s.wrap(OpCreate, 0, err)
	}
	obs.Logger.DebugContext(ctx, "entity_created", "entity", s.name, "id", keyOf(&rec))
	return rec, nil
}

// Update merges the set fields of patch into the record with the given id and
// persists it. When the record does not exist nothing is written and the bool
// is false.
func (s *Service[T]) Update(ctx context.Context, id int64, patch T) (rec T, found bool, err error) {
	ctx, span := s.tracer.StartOperation(ctx, s.name, OpUpdate, id)
	defer obs.StartTiming(ctx, "service", s.name+"."+OpUpdate)()
	defer func() { obs.EndSpan(span, err); s.finish(ctx, OpUpdate, found, err) }()

	rec, found, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return rec, false, s.wrap(OpUpdate, id, err)
	}
	if !found {
		return rec, false, nil
	}
	model.Merge(&rec, &patch)
	if err = s.repo.Save(ctx, &rec); err != nil {
		return rec, false, s.wrap(OpUpdate, id, err)
	}
	obs.Logger.DebugContext(ctx, "entity_updated", "entity", s.name, "id", id)
	return rec, true, nil
}

// Delete removes the record with the given id. A missing record is not an
// error.
func (s *Service[T]) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.StartOperation(ctx, s.name, OpDelete, id)
	defer obs.StartTiming(ctx, "service", s.name+"."+OpDelete)()
	defer func() { obs.EndSpan(span, err); s.finish(ctx, OpDelete, true, err) }()

	if err = s.repo.DeleteByID(ctx, id); err != nil {
		return s.wrap(OpDelete, id, err)
	}
	obs.Logger.DebugContext(ctx, "entity_deleted", "entity", s.name, "id", id)
	return nil
}

func clearKey[T any](rec *T) {
	if k, ok := any(rec).(model.Keyed); ok {
		k.SetKey(0)
	}
}

func keyOf[T any](rec *T) int64 {
	if k, ok := any(rec).(model.Keyed); ok {
		return k.Key()
	}
	return 0
}
