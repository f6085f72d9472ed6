package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

type mongoCartItemRepository struct {
	collection *mongo.Collection
}

func NewMongoCartItemRepository(db *mongo.Database) CartItemRepository {
	return &mongoCartItemRepository{
		collection: db.Collection("cart_items"),
	}
}

func (m *mongoCartItemRepository) Get(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	var item domain.CartItem

	filter := bson.M{"user_id": userID, "product_id": productID}
	err := m.collection.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return &item, nil
}

func (m *mongoCartItemRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}

	return items, nil
}

func (m *mongoCartItemRepository) Insert(ctx context.Context, item *domain.CartItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if _, err := m.collection.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("failed to insert cart item: %w", err)
	}

	return item.ID, nil
}

func (m *mongoCartItemRepository) UpdateAmount(ctx context.Context, id string, amount int) error {
	update := bson.M{"$set": bson.M{"amount": amount}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update cart item amount: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoCartItemRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoCartItemRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	return nil
}

// CreateIndexes speeds up the per-user scan and the (user, product)
// point lookup. The single-row-per-pair invariant is still enforced
// by the cart engine, not by the index.
func (m *mongoCartItemRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
