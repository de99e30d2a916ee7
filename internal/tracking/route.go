// Package tracking animates a shipment marker along a driving route.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrEmptyRoute is returned when a route has no points to walk.
	ErrEmptyRoute = errors.New("tracking: route has no points")

	// ErrNoRoute is returned when the routing service finds no path.
	ErrNoRoute = errors.New("tracking: no route between points")
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that c lies within WGS84 bounds.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("tracking: coordinate (%f, %f) out of range", c.Lat, c.Lng)
	}
	return nil
}

// Route is an ordered polyline from origin to destination.
type Route []Coordinate

// RouteProvider fetches driving routes.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination Coordinate) (Route, error)
}

// Positions yields the route indices reached on successive ticks:
// stride, 2*stride, ... clamped to the last point, ending there.
// Routes with fewer than two points yield nothing.
func Positions(route Route, stride int) iter.Seq2[int, Coordinate] {
	return func(yield func(int, Coordinate) bool) {
		last := len(route) - 1
		if last <= 0 || stride <= 0 {
			return
		}
		for idx := 0; idx < last; {
			idx = min(idx+stride, last)
			if !yield(idx, route[idx]) {
				return
			}
		}
	}
}

// IndexAfter returns the route index reached after n ticks.
func IndexAfter(n, stride, routeLength int) int {
	if routeLength <= 0 {
		return 0
	}
	return min(n*stride, routeLength-1)
}
