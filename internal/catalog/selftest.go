package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	selfTestCode      = "abc123"
	selfTestMissingID = "id_que_no_existe"
)

// SelfTest drives a store through add, duplicate add, lookups, update and
// delete, logging every step. It leaves the store as it found it and returns
// the first outcome that differs from the expected one.
func SelfTest(ctx context.Context, s *Store, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	id, err := s.Add(ctx, NewProduct{
		Title:       "producto prueba",
		Description: "Este es un producto prueba",
		Price:       200,
		Thumbnail:   "Sin imagen",
		Code:        selfTestCode,
		Stock:       25,
	})
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	log.Info("selftest: product added", zap.String("id", id))

	products, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	log.Info("selftest: products listed", zap.Int("count", len(products)))

	_, err = s.Add(ctx, NewProduct{
		Title:       "producto prueba duplicado",
		Description: "Este es otro producto prueba",
		Price:       250,
		Thumbnail:   "Otra imagen",
		Code:        selfTestCode,
		Stock:       15,
	})
	if !errors.Is(err, ErrDuplicateCode) {
		return fmt.Errorf("duplicate add: want %v, got %v", ErrDuplicateCode, err)
	}
	log.Info("selftest: duplicate code rejected", zap.Error(err))

	if _, err := s.Get(ctx, selfTestMissingID); !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("get missing: want %v, got %v", ErrNotFound, err)
	}
	log.Info("selftest: missing product not found", zap.String("id", selfTestMissingID))

	p, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	log.Info("selftest: product fetched", zap.Any("product", p))

	price := 300.0
	updated, err := s.Update(ctx, id, Patch{Price: &price})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if updated.Price != price {
		return fmt.Errorf("update: price = %v, want %v", updated.Price, price)
	}
	log.Info("selftest: price updated", zap.Float64("price", updated.Price))

	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	log.Info("selftest: product deleted", zap.String("id", id))

	return nil
}
