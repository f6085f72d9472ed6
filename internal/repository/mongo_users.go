package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
	}
}

func (m *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.get(ctx, bson.M{"_id": id})
}

func (m *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.get(ctx, bson.M{"username": username})
}

func (m *mongoUserRepository) get(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User

	err := m.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (m *mongoUserRepository) Insert(ctx context.Context, user *domain.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if _, err := m.collection.InsertOne(ctx, user); err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	return user.ID, nil
}

func (m *mongoUserRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
