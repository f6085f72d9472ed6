package cache

import (
	"context"
	"errors"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

var ErrCacheMiss = errors.New("cart not found in cache")

// CartCache stores resolved cart views. A nil cart is a valid cached
// value (the user has an empty cart) and is distinct from a miss.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}
