package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxRunner runs each cart operation inside one MongoDB session
// transaction. Collection calls made through the session context are
// committed together or not at all.
type mongoTxRunner struct {
	client *mongo.Client
}

func NewMongoTxRunner(client *mongo.Client) TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// noopTxRunner is for standalone mongod deployments and tests, where
// multi-document transactions are unavailable. It keeps the scoped
// shape of an operation without transactional guarantees.
type noopTxRunner struct{}

func NewNoopTxRunner() TxRunner {
	return noopTxRunner{}
}

func (noopTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
