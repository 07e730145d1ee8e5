package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// KV is the persistence contract every backend satisfies: opaque JSON blobs under
// string keys, last write wins.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
