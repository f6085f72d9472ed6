package repository

import (
	"context"
	"errors"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

// ErrNotFound is returned by point lookups when no document matches.
// Absence is a normal outcome here; callers translate it into their
// own typed failures.
var ErrNotFound = errors.New("document not found")

// ProductRepository defines the interface for product data operations.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) (string, error)
	UpdateMany(ctx context.Context, products []domain.Product) error
}

// CartItemRepository stores one document per (user, product) cart line.
type CartItemRepository interface {
	Get(ctx context.Context, userID, productID string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	Insert(ctx context.Context, item *domain.CartItem) (string, error)
	UpdateAmount(ctx context.Context, id string, amount int) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) (string, error)
}

// OrderRepository persists checkout results together with their
// outbox events. Create must write both documents so that a
// surrounding transaction covers them atomically.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	UnpublishedEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string) error
}

// TxRunner scopes a function to one store transaction: commit on nil
// return, abort on error, session released on every path.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
