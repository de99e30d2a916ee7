package redis

import (
	"context"
	"time"

	"courier/internal/domain"
)

// LocationStoreInterface defines the interface for shipment location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, bookingID string, lat, lng float64) error
	GetLocation(ctx context.Context, bookingID string) (*ShipmentLocation, error)
	RemoveLocation(ctx context.Context, bookingID string) error
	FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]ShipmentLocation, error)
	SetProgress(ctx context.Context, bookingID string, progress TrackingProgress) error
	GetProgress(ctx context.Context, bookingID string) (*TrackingProgress, error)
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquirePaymentLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error)
	ReleasePaymentLock(ctx context.Context, bookingID, token string) error
}

// RouteCache defines the interface for caching route polylines.
type RouteCache interface {
	GetRoute(ctx context.Context, key string) ([]RoutePoint, error)
	SetRoute(ctx context.Context, key string, points []RoutePoint) error
}

// BookingListCache defines the interface for caching a customer's bookings.
type BookingListCache interface {
	GetClerkBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error)
	SetClerkBookings(ctx context.Context, clerkID string, bookings []*domain.Booking) error
	InvalidateClerkBookings(ctx context.Context, clerkID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ RouteCache             = (*CacheStore)(nil)
	_ BookingListCache       = (*CacheStore)(nil)
)
