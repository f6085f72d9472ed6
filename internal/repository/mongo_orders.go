package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

type mongoOrderRepository struct {
	orders *mongo.Collection
	outbox *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		orders: db.Collection("orders"),
		outbox: db.Collection("outbox"),
	}
}

// Create inserts the order and its outbox event. Callers run it
// inside the checkout transaction so the event can never exist
// without its order, or the other way around.
func (m *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	if _, err := m.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"charged":      order.Charged,
		"completed_at": order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	event := domain.OutboxEvent{
		ID:        uuid.NewString(),
		Payload:   payload,
		Published: false,
		CreatedAt: order.CreatedAt,
	}
	if _, err := m.outbox.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

func (m *mongoOrderRepository) UnpublishedEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.outbox.Find(ctx, bson.M{"published": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer cursor.Close(ctx)

	var events []domain.OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode outbox events: %w", err)
	}

	return events, nil
}

func (m *mongoOrderRepository) MarkPublished(ctx context.Context, id string) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{"published": true, "published_at": now}}

	result, err := m.outbox.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
