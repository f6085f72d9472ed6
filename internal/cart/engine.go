package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
	"github.com/rolurq/shopify-backend-challenge/internal/repository"
)

// Engine enforces the cart invariants: at most one cart line per
// (user, product), no line with amount <= 0, and inventory checked
// before every add. Every public operation runs inside one scoped
// store transaction.
type Engine struct {
	tx       repository.TxRunner
	products repository.ProductRepository
	items    repository.CartItemRepository
	orders   repository.OrderRepository
}

func NewEngine(
	tx repository.TxRunner,
	products repository.ProductRepository,
	items repository.CartItemRepository,
	orders repository.OrderRepository,
) *Engine {
	return &Engine{
		tx:       tx,
		products: products,
		items:    items,
		orders:   orders,
	}
}

// ResolveCart computes the cart view for a user. A nil cart with nil
// error means the user has no cart lines at all; callers must not
// conflate that with a cart whose price happens to be zero.
func (e *Engine) ResolveCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart *domain.Cart
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		resolved, err := e.resolve(ctx, userID)
		cart = resolved
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (e *Engine) resolve(ctx context.Context, userID string) (*domain.Cart, error) {
	items, err := e.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	cart := &domain.Cart{Products: make([]domain.CartLine, 0, len(items))}
	for _, item := range items {
		product, err := e.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductGone, item.ProductID)
			}
			return nil, err
		}

		cart.Products = append(cart.Products, domain.CartLine{
			Product: *product,
			Amount:  item.Amount,
		})
		cart.Price += product.Price * float64(item.Amount)
	}

	return cart, nil
}

// AddToCart inserts a new cart line or bumps the amount of the
// existing one. The inventory check covers the requested amount plus
// whatever is already in the cart, and happens before any write.
//
// Inventory is not decremented here; it is only consumed at checkout.
// Two adds for the last unit racing across transactions can both pass
// the check. Known limitation, see CompleteCart.
func (e *Engine) AddToCart(ctx context.Context, userID, productID string, amount int) (*domain.Cart, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidAmount, amount)
	}

	var cart *domain.Cart
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := e.products.GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		current := 0
		existing, err := e.items.Get(ctx, userID, productID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if existing != nil {
			current = existing.Amount
		}

		if product.InventoryCount < amount+current {
			return ErrInsufficientInventory
		}

		if existing == nil {
			_, err = e.items.Insert(ctx, &domain.CartItem{
				UserID:    userID,
				ProductID: productID,
				Amount:    amount,
			})
		} else {
			err = e.items.UpdateAmount(ctx, existing.ID, current+amount)
		}
		if err != nil {
			return err
		}

		cart, err = e.resolve(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart takes items out of a cart line. A nil amount, or an
// amount equal to what is stored, deletes the line entirely. Removing
// more than is stored fails without mutating anything. A nil cart is
// returned when the last line goes away.
func (e *Engine) RemoveFromCart(ctx context.Context, userID, productID string, amount *int) (*domain.Cart, error) {
	// a negative amount would land in the decrement branch and grow
	// the line past the add-time inventory check
	if amount != nil && *amount <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidAmount, *amount)
	}

	var cart *domain.Cart
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.products.GetByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		item, err := e.items.Get(ctx, userID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEmptyCartItem
			}
			return err
		}

		switch {
		case amount == nil || *amount == item.Amount:
			err = e.items.Delete(ctx, item.ID)
		case *amount > item.Amount:
			return ErrOverRemoval
		default:
			err = e.items.UpdateAmount(ctx, item.ID, item.Amount-*amount)
		}
		if err != nil {
			return err
		}

		cart, err = e.resolve(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// CompleteCart charges for every cart line, decrements inventory,
// records the order and purges the cart, all in one transaction.
//
// There is no floor check on the decrement: checkout trusts that
// inventory was validated at add time, so a race between adds and
// checkouts can drive inventory_count below zero. Success is also
// reported unconditionally.
// TODO: clamp inventory at zero and report partial failure instead.
func (e *Engine) CompleteCart(ctx context.Context, userID string) (*domain.Receipt, error) {
	var receipt *domain.Receipt
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		items, err := e.items.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var (
			charged  float64
			modified = make([]domain.Product, 0, len(items))
			consumed = make([]string, 0, len(items))
			lines    = make([]domain.OrderLine, 0, len(items))
		)
		for _, item := range items {
			product, err := e.products.GetByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrProductGone, item.ProductID)
				}
				return err
			}

			charged += product.Price * float64(item.Amount)
			product.InventoryCount -= item.Amount

			modified = append(modified, *product)
			consumed = append(consumed, item.ID)
			lines = append(lines, domain.OrderLine{
				ProductID: product.ID,
				Title:     product.Title,
				Price:     product.Price,
				Amount:    item.Amount,
			})
		}

		if err := e.products.UpdateMany(ctx, modified); err != nil {
			return err
		}
		if err := e.items.DeleteMany(ctx, consumed); err != nil {
			return err
		}
		if err := e.orders.Create(ctx, &domain.Order{
			UserID:  userID,
			Charged: charged,
			Lines:   lines,
		}); err != nil {
			return err
		}

		receipt = &domain.Receipt{Charged: charged, Success: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
