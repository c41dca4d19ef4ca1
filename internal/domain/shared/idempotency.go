package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of requests that were already handled.
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget releases a key so a failed request can be retried with it.
	Forget(ctx context.Context, key string) error
	Close() error
}
