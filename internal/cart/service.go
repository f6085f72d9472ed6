package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rolurq/shopify-backend-challenge/internal/cache"
	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

// Service fronts the engine with a cart-view cache. Reads go through
// the cache, mutations go to the engine and invalidate the cached
// view. Cache failures are logged and bypassed, never surfaced.
type Service struct {
	engine *Engine
	cache  cache.CartCache
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(engine *Engine, cache cache.CartCache) *Service {
	return &Service{
		engine: engine,
		cache:  cache,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart (possibly empty) is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, err = s.engine.ResolveCart(ctx, userID)
		if err != nil {
			return cart, err
		}

		// set cache. Written async, so a concurrent mutation's
		// invalidate can lose to this Set and pin a stale view
		// until the TTL expires.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	cart, _ := v.(*domain.Cart)
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, amount int) (*domain.Cart, error) {
	cart, err := s.engine.AddToCart(ctx, userID, productID, amount)
	if err != nil {
		return nil, err
	}

	s.invalidate(userID)
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string, amount *int) (*domain.Cart, error) {
	cart, err := s.engine.RemoveFromCart(ctx, userID, productID, amount)
	if err != nil {
		return nil, err
	}

	s.invalidate(userID)
	return cart, nil
}

func (s *Service) Checkout(ctx context.Context, userID string) (*domain.Receipt, error) {
	receipt, err := s.engine.CompleteCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.invalidate(userID)
	return receipt, nil
}

func (s *Service) invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
