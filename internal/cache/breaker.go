package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

// BreakerCache shields the store from a flapping Redis. When the
// breaker opens, every call reports a miss and mutations become
// no-ops, so the service keeps serving straight from the store.
type BreakerCache struct {
	inner CartCache
	cb    *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(inner CartCache) *BreakerCache {
	settings := gobreaker.Settings{
		Name:    "cart-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a miss is a normal outcome, not a Redis failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	}

	return &BreakerCache{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*domain.Cart](settings),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := b.cb.Execute(func() (*domain.Cart, error) {
		return b.inner.Get(ctx, userID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCacheMiss
	}
	return cart, err
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.inner.Set(ctx, userID, cart)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil
	}
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.inner.Delete(ctx, userID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil
	}
	return err
}
