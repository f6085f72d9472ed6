package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rolurq/shopify-backend-challenge/internal/auth"
	"github.com/rolurq/shopify-backend-challenge/internal/cart"
	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

// CartAPI is what the handler needs from the cart service.
// Consumers define this interface, not the implementation.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, amount int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string, amount *int) (*domain.Cart, error)
	Checkout(ctx context.Context, userID string) (*domain.Receipt, error)
}

type CartHandler struct {
	carts   CartAPI
	timeout time.Duration
}

func NewCartHandler(carts CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to access the cart")
		return
	}

	cartView, err := h.carts.GetCart(ctx, user.ID)
	if err != nil {
		handleCartError(w, err)
		return
	}

	// nil is a valid body here: an empty cart serializes as null
	respondJSON(w, http.StatusOK, cartView)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to access the cart")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}
	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be greater than 0")
		return
	}

	cartView, err := h.carts.AddItem(ctx, user.ID, req.ProductID, req.Amount)
	if err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartView)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to access the cart")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// absent amount means "remove the whole line"
	var amount *int
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive integer")
			return
		}
		amount = &parsed
	}

	cartView, err := h.carts.RemoveItem(ctx, user.ID, productID, amount)
	if err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartView)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must be logged in to access the cart")
		return
	}

	receipt, err := h.carts.Checkout(ctx, user.ID)
	if err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, cart.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, cart.ErrInsufficientInventory):
		respondError(w, http.StatusConflict, "insufficient_inventory", err.Error())
	case errors.Is(err, cart.ErrEmptyCartItem):
		respondError(w, http.StatusConflict, "empty_cart_item", err.Error())
	case errors.Is(err, cart.ErrOverRemoval):
		respondError(w, http.StatusConflict, "over_removal", err.Error())
	case errors.Is(err, cart.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
