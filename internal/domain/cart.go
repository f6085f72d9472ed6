package domain

// CartItem is one cart line, stored as its own document. The cart
// engine keeps at most one row per (user_id, product_id) pair and
// never stores a row with amount <= 0.
type CartItem struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	UserID    string `bson:"user_id" json:"user_id"`
	ProductID string `bson:"product_id" json:"product_id"`
	Amount    int    `bson:"amount" json:"amount"`
}

// CartLine is a cart item with its product resolved.
type CartLine struct {
	Product Product `json:"product"`
	Amount  int     `json:"amount"`
}

// Cart is the computed view of a user's cart. It is never persisted;
// it is derived by joining cart_items rows against products. A user
// with no rows has no Cart at all (nil), not a zero-price one.
type Cart struct {
	Products []CartLine `json:"products"`
	Price    float64    `json:"price"`
}

// Receipt is the result of checking out a cart. Success is reported
// unconditionally today; there is no partial-failure signal.
type Receipt struct {
	Charged float64 `json:"charged"`
	Success bool    `json:"success"`
}
