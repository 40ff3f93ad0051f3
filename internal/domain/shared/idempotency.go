package shared

import (
	"context"
	"time"
)

// IdempotencyStore records keys that have already been handled so that
// retried requests and redelivered events are processed at most once.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL. Returns true if
	// the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
