package utils

import (
	"context"
	"time"
)

// DefaultStoreTimeout bounds a single read-modify-write against the store.
const DefaultStoreTimeout = 10 * time.Second

// GetStoreContext returns a context with timeout for store calls.
// A nil parent falls back to context.Background.
func GetStoreContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return context.WithTimeout(parentCtx, timeout)
}
