package domain

import "time"

// Order is the durable record written by checkout, in the same
// transaction as the inventory decrement and cart purge.
type Order struct {
	ID        string      `bson:"_id,omitempty" json:"id"`
	UserID    string      `bson:"user_id" json:"user_id"`
	Charged   float64     `bson:"charged" json:"charged"`
	Lines     []OrderLine `bson:"lines" json:"lines"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}

type OrderLine struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Amount    int     `bson:"amount" json:"amount"`
}

// OutboxEvent is a pending checkout notification. Events are written
// transactionally with their order and published to Kafka by a poller.
type OutboxEvent struct {
	ID          string     `bson:"_id,omitempty"`
	Payload     []byte     `bson:"payload"`
	Published   bool       `bson:"published"`
	CreatedAt   time.Time  `bson:"created_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty"`
}
