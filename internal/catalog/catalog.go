// Package catalog serves read-only product queries. Products are
// only ever mutated by the cart engine's checkout.
package catalog

import (
	"context"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

type Service struct {
	products repository.ProductRepository
}

func NewService(products repository.ProductRepository) *Service {
	return &Service{products: products}
}

// ListAvailable returns products with inventory left, in collection
// order.
func (s *Service) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListAvailable(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListAll(ctx)
}

// GetByID looks a product up by id. Absence surfaces as
// repository.ErrNotFound, a normal outcome for callers to branch on.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}
