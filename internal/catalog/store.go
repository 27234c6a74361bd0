package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Code        string  `json:"code"`
	Stock       int     `json:"stock"`
}

// NewProduct holds the fields accepted by Add. Strings must be non-empty,
// price positive and stock non-negative.
type NewProduct struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Thumbnail   string  `json:"thumbnail" validate:"required"`
	Code        string  `json:"code" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// Patch is a partial update. Nil fields are left untouched. The id of a
// product is not patchable.
type Patch struct {
	Title       *string  `json:"title,omitempty" validate:"omitnil,min=1"`
	Description *string  `json:"description,omitempty" validate:"omitnil,min=1"`
	Price       *float64 `json:"price,omitempty" validate:"omitnil,gt=0"`
	Thumbnail   *string  `json:"thumbnail,omitempty" validate:"omitnil,min=1"`
	Code        *string  `json:"code,omitempty" validate:"omitnil,min=1"`
	Stock       *int     `json:"stock,omitempty" validate:"omitnil,gte=0"`
}

func (p Patch) apply(dst *Product) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Thumbnail != nil {
		dst.Thumbnail = *p.Thumbnail
	}
	if p.Code != nil {
		dst.Code = *p.Code
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
}

// Backend persists the whole product list as one document.
type Backend interface {
	Load(v any) error
	Save(v any) error
	Ping() error
}

type Options struct {
	Log     *zap.Logger
	Metrics *Metrics

	// Strict makes Open fail when an existing backing file cannot be read.
	// Otherwise the store logs the problem and starts empty.
	Strict bool

	Now  func() time.Time
	Rand *rand.Rand
}

// Store owns the ordered product list and mirrors it to its Backend after
// every mutation. Accessors return copies.
type Store struct {
	mu       sync.RWMutex
	products []Product

	backend  Backend
	ids      *idGenerator
	validate *validator.Validate
	log      *zap.Logger
	metrics  *Metrics
}

func Open(backend Backend, opts Options) (*Store, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		products: []Product{},
		backend:  backend,
		ids:      newIDGenerator(opts.Now, opts.Rand),
		validate: newValidator(),
		log:      log,
		metrics:  opts.Metrics,
	}

	err := s.load()
	switch {
	case err == nil:
		s.log.Info("products loaded", zap.Int("count", len(s.products)))
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("no backing file, starting empty")
	default:
		s.log.Error("load products failed", zap.Error(err))
		if opts.Strict {
			return nil, fmt.Errorf("%w: %w", ErrLoad, err)
		}
	}

	s.metrics.setProducts(len(s.products))
	return s, nil
}

func (s *Store) load() error {
	var products []Product
	if err := s.backend.Load(&products); err != nil {
		return err
	}
	if products == nil {
		products = []Product{}
	}

	for _, p := range products {
		s.ids.observe(p.ID)
	}
	s.products = products
	return nil
}

// persist writes next to the backend. Callers hold the write lock and only
// install next as the live list when persist succeeds.
func (s *Store) persist(next []Product) error {
	if err := s.backend.Save(next); err != nil {
		s.metrics.persistFailed()
		s.log.Error("persist products failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.metrics.setProducts(len(next))
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.backend.Ping()
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *Store) Get(ctx context.Context, id string) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexByID(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.products[i], nil
}

// Add validates in, assigns a fresh id, appends the product and persists the
// list. It returns the new id.
func (s *Store) Add(ctx context.Context, in NewProduct) (id string, err error) {
	defer func() { s.metrics.mutation(opAdd, err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkFields(s.validate, in); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByCode(in.Code) >= 0 {
		return "", ErrDuplicateCode
	}

	id = s.ids.next()
	for s.indexByID(id) >= 0 {
		id = s.ids.next()
	}

	p := Product{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Thumbnail:   in.Thumbnail,
		Code:        in.Code,
		Stock:       in.Stock,
	}

	next := append(slices.Clone(s.products), p)
	if err := s.persist(next); err != nil {
		return "", err
	}
	s.products = next

	s.log.Info("product added", zap.String("id", id), zap.String("code", p.Code))
	return id, nil
}

// Update merges patch into the product with the given id and persists the
// list. It returns the updated product.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (_ Product, err error) {
	defer func() { s.metrics.mutation(opUpdate, err) }()

	if err := ctx.Err(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	if err := checkFields(s.validate, patch); err != nil {
		return Product{}, err
	}
	if patch.Code != nil {
		if j := s.indexByCode(*patch.Code); j >= 0 && j != i {
			return Product{}, ErrDuplicateCode
		}
	}

	next := slices.Clone(s.products)
	patch.apply(&next[i])

	if err := s.persist(next); err != nil {
		return Product{}, err
	}
	s.products = next

	s.log.Info("product updated", zap.String("id", id))
	return next[i], nil
}

func (s *Store) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.mutation(opDelete, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.products), i, i+1)
	if err := s.persist(next); err != nil {
		return err
	}
	s.products = next

	s.log.Info("product deleted", zap.String("id", id))
	return nil
}

func (s *Store) indexByID(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}

func (s *Store) indexByCode(code string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.Code == code })
}
