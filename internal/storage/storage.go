// Package storage persists the flat list of calendar events as a single JSON
// document stored under a fixed key.
package storage

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/shared-calendar/internal/model"
)

// Key names the stored document in every backend.
const Key = "calendar_events"

type Storage interface {
	Save(ctx context.Context, events []*model.Event) error
	Load(ctx context.Context) ([]*model.Event, error)
}

// Blobs reads and writes raw documents by key. Backends implement it and get
// wrapped by NewDocumentStorage.
type Blobs interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns nil data and no error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

type documentStorage struct {
	blobs Blobs
	codec *Codec
}

// NewDocumentStorage stores events encoded by codec in blobs under Key.
func NewDocumentStorage(blobs Blobs, codec *Codec) Storage {
	return &documentStorage{blobs: blobs, codec: codec}
}

func (s *documentStorage) Save(ctx context.Context, events []*model.Event) error {
	data, err := s.codec.Encode(events)
	if err != nil {
		return err
	}

	if err := s.blobs.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

// Load returns no events and no error when nothing has been saved yet.
func (s *documentStorage) Load(ctx context.Context) ([]*model.Event, error) {
	data, err := s.blobs.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	if data == nil {
		return nil, nil
	}

	return s.codec.Decode(data)
}
