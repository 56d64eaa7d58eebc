// Package kvstore is the key-value persistence used for application lists,
// wizard drafts and rate-limit counters. Redis backs it in production and an
// in-process map when Redis is disabled.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a small subset of Redis semantics.
type Store interface {
	// Get returns the value stored at key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key. A ttl of zero keeps the key forever.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// ListAppend pushes values to the tail of the list at key.
	ListAppend(ctx context.Context, key string, values ...[]byte) error
	// ListRange returns every element of the list, head first.
	ListRange(ctx context.Context, key string) ([][]byte, error)
	// ListReplace atomically replaces the whole list.
	ListReplace(ctx context.Context, key string, values [][]byte) error

	// Incr increments the counter at key, starting its expiry on first use.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
