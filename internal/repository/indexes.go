package repository

import "context"

type indexCreator interface {
	CreateIndexes(ctx context.Context) error
}

// CreateIndexes bootstraps indexes for every repository that has any.
func CreateIndexes(ctx context.Context, repos ...interface{}) error {
	for _, repo := range repos {
		c, ok := repo.(indexCreator)
		if !ok {
			continue
		}
		if err := c.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
