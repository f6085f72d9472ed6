package domain

// Product is a catalog entry. Inventory is only ever decremented by
// checkout; adding a product to a cart does not reserve stock.
type Product struct {
	ID             string  `bson:"_id,omitempty" json:"id"`
	Title          string  `bson:"title" json:"title"`
	Price          float64 `bson:"price" json:"price"`
	InventoryCount int     `bson:"inventory_count" json:"inventory_count"`
}
