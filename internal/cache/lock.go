package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. Its one job here is to
// keep a single status transition in flight per booking: the UI-level
// "busy flag" discipline, enforced server-side.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireTransitionLock attempts to acquire the transition lock for the
// given booking. Returns true if acquired, false if another transition for
// the same booking is already in flight.
func (s *LockStore) AcquireTransitionLock(ctx context.Context, bookingID uint, ttl time.Duration) (bool, error) {
	if s.client == nil {
		// No redis configured; single-instance deployments fall back to
		// the database being the only arbiter
		return true, nil
	}
	key := fmt.Sprintf("lock:booking:transition:%d", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseTransitionLock releases the transition lock for the given booking
func (s *LockStore) ReleaseTransitionLock(ctx context.Context, bookingID uint) error {
	if s.client == nil {
		return nil
	}
	key := fmt.Sprintf("lock:booking:transition:%d", bookingID)

	return s.client.Del(ctx, key).Err()
}
