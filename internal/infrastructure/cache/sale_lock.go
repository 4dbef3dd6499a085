package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	appcommission "github.com/erp/salesledger/internal/application/commission"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockPrefix       = "salesledger:lock:"
	lockRetryBackoff = 100 * time.Millisecond
	lockRetries      = 3
	releaseTimeout   = 2 * time.Second
)

// RedisLocker serializes commission calculation per sale or service order
// across instances with a redislock lease.
//
// The lock is best effort: the database unique indexes remain the final
// guard. When Redis cannot be reached the work runs unlocked and a warning
// is logged. A lock held by another worker is a CONCURRENCY_CONFLICT.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLocker creates a locker whose leases expire after ttl
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		logger: logger,
	}
}

// WithLock runs fn while holding the lease for key
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.client.Obtain(ctx, lockPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryBackoff), lockRetries),
	})
	switch {
	case errors.Is(err, redislock.ErrNotObtained):
		return fmt.Errorf("%s is being processed by another worker: %w", key, shared.ErrConcurrencyConflict)
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		l.logger.Warn("redis lock unavailable, continuing without it",
			zap.String("key", key),
			zap.Error(err),
		)
		return fn(ctx)
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release redis lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn(ctx)
}

// Ensure RedisLocker implements commission.Locker
var _ appcommission.Locker = (*RedisLocker)(nil)
