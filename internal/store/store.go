// Package store implements the persistence gateways for catalog entities.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
)

// ErrUnknownDriver is returned by Open for an unsupported DB_DRIVER.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Repository is the persistence contract for one entity type. FindByID
// reports absence with false and a nil error. Save inserts when the record has
// no key and otherwise updates, inserting if the key is unknown. DeleteByID
// succeeds whether or not the key exists.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, bool, error)
	Save(ctx context.Context, rec *T) error
	DeleteByID(ctx context.Context, id int64) error
}

// Store holds one repository per entity and the database behind them, if any.
type Store struct {
	Categories        Repository[model.Category]
	SubCategories     Repository[model.SubCategory]
	Products          Repository[model.Product]
	ProductAttributes Repository[model.ProductAttribute]
	ProductsSkus      Repository[model.ProductsSku]

	db *gorm.DB
}

// NewMemory returns a Store whose repositories live in process memory.
func NewMemory() *Store {
	return &Store{
		Categories:        NewMemoryRepository[model.Category](),
		SubCategories:     NewMemoryRepository[model.SubCategory](),
		Products:          NewMemoryRepository[model.Product](),
		ProductAttributes: NewMemoryRepository[model.ProductAttribute](),
		ProductsSkus:      NewMemoryRepository[model.ProductsSku](),
	}
}

// NewGorm returns a Store backed by db.
func NewGorm(db *gorm.DB) *Store {
	return &Store{
		Categories:        NewGormRepository[model.Category](db),
		SubCategories:     NewGormRepository[model.SubCategory](db),
		Products:          NewGormRepository[model.Product](db),
		ProductAttributes: NewGormRepository[model.ProductAttribute](db),
		ProductsSkus:      NewGormRepository[model.ProductsSku](db),
		db:                db,
	}
}

// DB returns the underlying database, nil for a memory store.
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks that the datastore is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the entity tables. It is a no-op for memory stores.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).AutoMigrate(model.All()...)
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
