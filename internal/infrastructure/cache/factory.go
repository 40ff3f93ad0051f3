package cache

import (
	"fmt"

	"github.com/doaddy/backend/internal/domain/shared"
	"github.com/doaddy/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore creates an idempotency store based on Redis
// availability. It tries Redis first and falls back to the in-memory
// store, which does not share state across instances.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err == nil {
		logger.Info("using Redis idempotency store")
		return store, nil
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// NewRequiredRedisIdempotencyStore creates a Redis idempotency store and
// fails when Redis is unreachable. Use in deployments with multiple
// instances, where in-memory state would allow duplicate processing.
func NewRequiredRedisIdempotencyStore(cfg config.RedisConfig) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}
	return store, nil
}
