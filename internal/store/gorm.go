package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
)

// GormRepository is a Repository over the table GORM maps T to.
type GormRepository[T any] struct {
	db *gorm.DB
}

// NewGormRepository returns a repository using db.
func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	var rec T
	err := r.db.WithContext(ctx).Take(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// Save writes rec and then reloads it, so rec carries what the column types
// actually stored (decimal scale, truncation) rather than what was sent.
func (r *GormRepository[T]) Save(ctx context.Context, rec *T) error {
	db := r.db.WithContext(ctx)
	if err := db.Save(rec).Error; err != nil {
		return err
	}
	k, ok := any(rec).(model.Keyed)
	if !ok {
		return nil
	}
	var stored T
	if err := db.Take(&stored, k.Key()).Error; err != nil {
		return fmt.Errorf("reload after save: %w", err)
	}
	*rec = stored
	return nil
}

func (r *GormRepository[T]) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}
