package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Store groups the repositories over one database handle. Repositories obtained
// inside Transaction share the transaction.
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Districts() DistrictRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Sliders() SliderRepository
	Features() FeatureRepository
	AdminUsers() AdminUserRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Categories() CategoryRepository   { return NewCategoryRepository(s.db) }
func (s *store) Products() ProductRepository      { return NewProductRepository(s.db) }
func (s *store) Districts() DistrictRepository    { return NewDistrictRepository(s.db) }
func (s *store) Customers() CustomerRepository    { return NewCustomerRepository(s.db) }
func (s *store) Orders() OrderRepository          { return NewOrderRepository(s.db) }
func (s *store) OrderItems() OrderItemRepository  { return NewOrderItemRepository(s.db) }
func (s *store) Sliders() SliderRepository        { return NewSliderRepository(s.db) }
func (s *store) Features() FeatureRepository      { return NewFeatureRepository(s.db) }
func (s *store) AdminUsers() AdminUserRepository  { return NewAdminUserRepository(s.db) }

func (s *store) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the page into sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

func paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p = p.Normalize()
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
