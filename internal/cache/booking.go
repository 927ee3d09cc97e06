package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BookingCacheTTL is short on purpose: booking status changes during
// transitions and the database stays authoritative.
const BookingCacheTTL = 15 * time.Second

const bookingCachePrefix = "cache:booking:"

// CachedBooking is the subset of a booking worth caching for list views
// and tracker gating. Never used for charge computation.
type CachedBooking struct {
	ID          uint    `json:"id"`
	BookingCode string  `json:"booking_code"`
	Status      string  `json:"status"`
	VehicleID   uint    `json:"vehicle_id"`
	CustomerID  uint    `json:"customer_id"`
	Payable     float64 `json:"payable"`
}

// CacheStore handles entity caching in Redis
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetBooking retrieves a booking from cache. A miss returns (nil, nil).
func (s *CacheStore) GetBooking(ctx context.Context, bookingID uint) (*CachedBooking, error) {
	if s.client == nil {
		return nil, nil
	}
	key := fmt.Sprintf("%s%d", bookingCachePrefix, bookingID)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedBooking
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetBooking stores a booking in cache
func (s *CacheStore) SetBooking(ctx context.Context, booking *CachedBooking) error {
	if s.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%d", bookingCachePrefix, booking.ID)
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, BookingCacheTTL).Err()
}

// InvalidateBooking drops a booking from cache. Called after every mutation
// so stale status never gates an affordance.
func (s *CacheStore) InvalidateBooking(ctx context.Context, bookingID uint) error {
	if s.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%d", bookingCachePrefix, bookingID)
	return s.client.Del(ctx, key).Err()
}
