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

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
	}
}

func (m *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product

	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (m *mongoProductRepository) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return m.list(ctx, bson.M{"inventory_count": bson.M{"$gt": 0}})
}

func (m *mongoProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return m.list(ctx, bson.M{})
}

func (m *mongoProductRepository) list(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (m *mongoProductRepository) Insert(ctx context.Context, product *domain.Product) (string, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if _, err := m.collection.InsertOne(ctx, product); err != nil {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}

	return product.ID, nil
}

// UpdateMany writes back modified products in one bulk operation,
// used by checkout to decrement inventory for every cart line.
func (m *mongoProductRepository) UpdateMany(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, len(products))
	for i, p := range products {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(p)
	}

	if _, err := m.collection.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to write back products: %w", err)
	}

	return nil
}
