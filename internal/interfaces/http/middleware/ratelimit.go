package middleware

import (
	"fmt"

	"github.com/erp/salesledger/internal/infrastructure/config"
	"github.com/erp/salesledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const rateLimitPrefix = "salesledger:ratelimit"

// NewRateLimiter builds a fixed-window limiter from the HTTP config. The
// redis store shares counters between replicas and needs a client.
func NewRateLimiter(cfg config.HTTPConfig, client *redis.Client) (*limiter.Limiter, error) {
	rate := limiter.Rate{
		Period: cfg.RateLimitWindow,
		Limit:  cfg.RateLimitRequests,
	}
	if rate.Period <= 0 || rate.Limit <= 0 {
		return nil, fmt.Errorf("rate limit needs a positive window and request count")
	}

	var store limiter.Store
	switch cfg.RateLimitStore {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis client")
		}
		s, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
		store = s
	default:
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	return limiter.New(store, rate), nil
}

// RateLimit limits requests per client IP and customer. Store errors let the
// request through; the wallet itself still enforces the balance.
func RateLimit(l *limiter.Limiter, log *zap.Logger) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return mgin.NewMiddleware(l,
		mgin.WithKeyGetter(rateLimitKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
		}),
	)
}

func rateLimitKey(c *gin.Context) string {
	key := c.ClientIP()
	if customerID := c.Param("customer_id"); customerID != "" {
		key += ":" + customerID
	}
	return key
}
