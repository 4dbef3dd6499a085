package cache

import (
	"fmt"

	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the store selected by cfg.IdempotencyStore.
// The redis store needs a connected client; config validation guarantees
// redis is enabled when it is selected.
func NewIdempotencyStore(cfg config.EventConfig, client redis.UniversalClient, logger *zap.Logger) (shared.IdempotencyStore, error) {
	switch cfg.IdempotencyStore {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis idempotency store selected but no redis client is available")
		}
		logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	case "memory", "":
		logger.Info("using in-memory idempotency store",
			zap.String("note", "duplicates are only suppressed within this process"))
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", cfg.IdempotencyStore)
	}
}
