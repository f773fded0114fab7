package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
)

type pool interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

// Blobs stores documents as plain redis string values.
type Blobs struct {
	pool pool
}

func NewBlobs(pool *redis.Pool) *Blobs {
	return &Blobs{pool: pool}
}

func (b *Blobs) Put(ctx context.Context, key string, data []byte) error {
	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "SET", key, data); err != nil {
		return fmt.Errorf("SET: %w", err)
	}

	return nil
}

func (b *Blobs) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := b.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	data, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GET: %w", err)
	}

	return data, nil
}
