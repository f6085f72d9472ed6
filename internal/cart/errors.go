package cart

import "errors"

var (
	ErrProductNotFound       = errors.New("product does not exist")
	ErrInvalidAmount         = errors.New("amount must be greater than 0")
	ErrEmptyCartItem         = errors.New("cannot remove item from empty cart")
	ErrOverRemoval           = errors.New("cannot remove more items than were added")
	ErrInsufficientInventory = errors.New("not enough inventory for product")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")

	// ErrProductGone means a cart line references a product that no
	// longer exists. This is a data-integrity fault, not user error.
	ErrProductGone = errors.New("cart references a deleted product")
)
