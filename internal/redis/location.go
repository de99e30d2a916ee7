package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	shipmentLocationKey = "shipments:locations"
	progressKeyPrefix   = "tracking:progress:"
	progressTTL         = 24 * time.Hour
)

// ShipmentLocation is the last reported position of a tracked booking.
type ShipmentLocation struct {
	BookingID string  `json:"bookingId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

// TrackingProgress records how far a simulated shipment has travelled.
type TrackingProgress struct {
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LocationStore handles shipment location operations in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a shipment's position using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, bookingID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, shipmentLocationKey, &redis.GeoLocation{
		Name:      bookingID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// GetLocation returns a shipment's last position. A missing entry returns nil, nil.
func (s *LocationStore) GetLocation(ctx context.Context, bookingID string) (*ShipmentLocation, error) {
	positions, err := s.client.GeoPos(ctx, shipmentLocationKey, bookingID).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}

	return &ShipmentLocation{
		BookingID: bookingID,
		Lat:       positions[0].Latitude,
		Lng:       positions[0].Longitude,
	}, nil
}

// FindNearby returns shipments within the given radius (in kilometers), nearest first.
func (s *LocationStore) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]ShipmentLocation, error) {
	results, err := s.client.GeoRadius(ctx, shipmentLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]ShipmentLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, ShipmentLocation{
			BookingID: r.Name,
			Lat:       r.Latitude,
			Lng:       r.Longitude,
		})
	}

	return locations, nil
}

// RemoveLocation removes a shipment from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, bookingID string) error {
	return s.client.ZRem(ctx, shipmentLocationKey, bookingID).Err()
}

// SetProgress stores the simulation progress of a shipment.
func (s *LocationStore) SetProgress(ctx context.Context, bookingID string, progress TrackingProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, progressKeyPrefix+bookingID, data, progressTTL).Err()
}

// GetProgress returns the simulation progress of a shipment. A miss returns nil, nil.
func (s *LocationStore) GetProgress(ctx context.Context, bookingID string) (*TrackingProgress, error) {
	data, err := s.client.Get(ctx, progressKeyPrefix+bookingID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var progress TrackingProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
