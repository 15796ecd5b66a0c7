package redis

import (
	"context"
	"time"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const dispatchLockPrefix = "dispatch:lock:"

// DispatchLock is a per-order advisory lock held while a dispatcher works
// an order. The time-to-live bounds how long a crashed holder can keep
// other dispatchers away; correctness never depends on the lock.
type DispatchLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDispatchLock creates a dispatch lock using SET NX with the given
// time-to-live.
func NewDispatchLock(client *redis.Client, ttl time.Duration) *DispatchLock {
	return &DispatchLock{client: client, ttl: ttl}
}

// Acquire attempts to take the lock for an order. Returns false without
// error when another dispatcher already holds it.
func (l *DispatchLock) Acquire(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	return l.client.SetNX(ctx, dispatchLockPrefix+orderID.String(), "1", l.ttl).Result()
}

// Release frees the lock for an order. Releasing a lock that has already
// expired is not an error.
func (l *DispatchLock) Release(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	return l.client.Del(ctx, dispatchLockPrefix+orderID.String()).Err()
}
