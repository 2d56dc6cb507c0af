// Package storage holds the persisted collections of the application: one
// opaque JSON document per key. Repositories and the session store sit on top
// of it and never see which backend is configured.
//
// Go Learning Note — Small Interfaces:
// Store has three methods, which keeps every backend (a map, a directory, a
// Redis key space, a Postgres table, an S3 bucket) trivially swappable. The
// consumers define what they need and the backends satisfy it implicitly.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store persists whole documents by key. Save replaces the previous value and
// Remove of a missing key is not an error.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
