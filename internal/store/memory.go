package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
)

// MemoryRepository keeps records in a map keyed by identity. Records are
// copied on the way in and out, so callers never share memory with the store.
type MemoryRepository[T any] struct {
	mu  sync.RWMutex
	m   map[int64]T
	seq Sequencer
}

// NewMemoryRepository returns an empty repository. *T must implement
// model.Keyed, which every catalog entity does through model.Identity.
func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{m: make(map[int64]T)}
}

func keyed[T any](rec *T) model.Keyed {
	k, ok := any(rec).(model.Keyed)
	if !ok {
		panic(fmt.Sprintf("store: %T does not embed model.Identity", rec))
	}
	return k
}

func clone[T any](rec *T, id int64) T {
	var cp T
	model.Merge(&cp, rec)
	keyed(&cp).SetKey(id)
	return cp
}

func (r *MemoryRepository[T]) FindAll(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		rec := r.m[id]
		out = append(out, clone(&rec, id))
	}
	return out, nil
}

func (r *MemoryRepository[T]) FindByID(_ context.Context, id int64) (T, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.m[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return clone(&rec, id), true, nil
}

func (r *MemoryRepository[T]) Save(_ context.Context, rec *T) error {
	k := keyed(rec)
	r.mu.Lock()
	defer r.mu.Unlock()
	id := k.Key()
	if id == 0 {
		id = r.seq.Next()
		k.SetKey(id)
	} else {
		r.seq.Observe(id)
	}
	// Save replaces the whole row, as an UPDATE of every column would.
	r.m[id] = clone(rec, id)
	return nil
}

func (r *MemoryRepository[T]) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}
