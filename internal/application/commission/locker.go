package commission

import "context"

// Locker serializes work on a key across processes
type Locker interface {
	// WithLock runs fn while holding the lock for key
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// NoOpLocker runs fn without locking, for single-process setups and tests
type NoOpLocker struct{}

// WithLock runs fn directly
func (NoOpLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SaleLockKey returns the lock key for a sale's commission calculation
func SaleLockKey(saleID string) string {
	return "commission:sale:" + saleID
}

// ServiceOrderLockKey returns the lock key for a service order's commission calculation
func ServiceOrderLockKey(orderID string) string {
	return "commission:os:" + orderID
}
