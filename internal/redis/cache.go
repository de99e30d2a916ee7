package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"courier/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client   *redis.Client
	routeTTL time.Duration
}

// NewCacheStore creates a new CacheStore. Routes are kept for routeTTL.
func NewCacheStore(client *redis.Client, routeTTL time.Duration) *CacheStore {
	if routeTTL <= 0 {
		routeTTL = DefaultRouteCacheTTL
	}
	return &CacheStore{client: client, routeTTL: routeTTL}
}

// Cache TTL constants
const (
	DefaultRouteCacheTTL = 6 * time.Hour
	BookingListCacheTTL  = 30 * time.Second
)

// Key prefixes
const (
	routeCachePrefix       = "cache:route:"
	bookingListCachePrefix = "cache:bookings:"
)

// RoutePoint is a cached polyline vertex.
type RoutePoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteKey builds the cache key for a route between two points.
// Coordinates are rounded to about one metre so nearby requests share an entry.
func RouteKey(originLat, originLng, destLat, destLng float64) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", originLat, originLng, destLat, destLng)
}

// GetRoute retrieves a route from cache. A miss returns nil, nil.
func (s *CacheStore) GetRoute(ctx context.Context, key string) ([]RoutePoint, error) {
	var points []RoutePoint
	found, err := s.getJSON(ctx, routeCachePrefix+key, &points)
	if err != nil || !found {
		return nil, err
	}
	return points, nil
}

// SetRoute stores a route in cache.
func (s *CacheStore) SetRoute(ctx context.Context, key string, points []RoutePoint) error {
	return s.setJSON(ctx, routeCachePrefix+key, points, s.routeTTL)
}

// GetClerkBookings retrieves a customer's cached booking list. A miss returns nil, nil.
func (s *CacheStore) GetClerkBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	found, err := s.getJSON(ctx, bookingListCachePrefix+clerkID, &bookings)
	if err != nil || !found {
		return nil, err
	}
	return bookings, nil
}

// SetClerkBookings stores a customer's booking list in cache.
func (s *CacheStore) SetClerkBookings(ctx context.Context, clerkID string, bookings []*domain.Booking) error {
	return s.setJSON(ctx, bookingListCachePrefix+clerkID, bookings, BookingListCacheTTL)
}

// InvalidateClerkBookings removes a customer's booking list from cache.
func (s *CacheStore) InvalidateClerkBookings(ctx context.Context, clerkID string) error {
	return s.client.Del(ctx, bookingListCachePrefix+clerkID).Err()
}

func (s *CacheStore) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CacheStore) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
