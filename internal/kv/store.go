// Package kv is the storefront's key-value persistence layer: a byte-level
// Store with SQLite and Redis backends, and a failure-tolerant JSON layer
// (Storage) on top of it.
package kv

import (
	"context"
	"errors"
)

// Prefix namespaces every key the storefront writes.
const Prefix = "KEM_MOCK_"

var (
	// ErrNotFound is returned by Store.Get for a missing key.
	ErrNotFound = errors.New("kv: key not found")
	// ErrNotPersisted reports that a write could not reach the backend.
	ErrNotPersisted = errors.New("kv: value not persisted")
)

// UpdateFunc receives the current value of a key (found=false when absent)
// and returns the replacement. Returning nil, nil leaves the key untouched.
type UpdateFunc func(old []byte, found bool) ([]byte, error)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update is an atomic read-modify-write of a single key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	// Usage is the byte size of all keys and values under Prefix.
	Usage(ctx context.Context) (int64, error)
	Close() error
}
