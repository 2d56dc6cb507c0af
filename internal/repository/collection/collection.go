// Package collection implements the repositories on top of a storage.Store.
// Every collection is one JSON array under one key; each operation reads the
// whole array, and mutations write the whole array back.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"hamsafar/internal/domain"
	"hamsafar/internal/storage"
)

// Collection is a JSON array of T persisted under a single key.
//
// Go Learning Note — Generics:
// The bookings, routes and locations collections behave identically apart
// from their element type. A type parameter lets one implementation of the
// read-modify-write cycle serve all three without interface{} casts.
//
// The mutex serializes writers within this process. Two processes sharing a
// backend can still interleave; there is no version check.
type Collection[T any] struct {
	mu    sync.Mutex
	store storage.Store
	key   string
}

func New[T any](store storage.Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// All returns every element in storage order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Mutate loads the collection, hands it to fn and saves fn's result when fn
// reports a change. The whole cycle holds the collection lock.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, changed, err := fn(items)
	if err != nil || !changed {
		return err
	}
	return c.save(ctx, next)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.store.Load(ctx, c.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, domain.PersistenceError{Op: "load", Key: c.key, Err: err}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domain.PersistenceError{Op: "decode", Key: c.key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return domain.PersistenceError{Op: "encode", Key: c.key, Err: err}
	}
	if err := c.store.Save(ctx, c.key, data); err != nil {
		return domain.PersistenceError{Op: "save", Key: c.key, Err: err}
	}
	return nil
}
