package events

import (
	"context"
	"errors"

	"github.com/SergeyKozhin/shared-calendar/internal/database"
	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// Blobs exposes the repository as a document store bound to one connection.
type Blobs struct {
	db   database.Queryable
	repo *Repository
}

func NewBlobs(db database.Queryable, repo *Repository) *Blobs {
	return &Blobs{db: db, repo: repo}
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte) error {
	return b.repo.PutDocument(ctx, b.db, key, data)
}

func (b *Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.repo.GetDocument(ctx, b.db, key)
	if errors.Is(err, model.ErrNoRecord) {
		return nil, nil
	}
	return data, err
}
