package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for per-driver claim locks.
type LockStoreInterface interface {
	AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error)
	ReleaseDriverLock(ctx context.Context, driverID string) error
}

// RateLimiterInterface defines the interface for per-client request limiting.
type RateLimiterInterface interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface   = (*LockStore)(nil)
	_ RateLimiterInterface = (*RateLimiter)(nil)
)
