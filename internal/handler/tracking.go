package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/middleware"
	"courier/internal/redis"
	"courier/internal/service"
	"courier/internal/tracking"
)

// TrackingService is the routing and tracking behaviour the HTTP layer needs.
type TrackingService interface {
	Route(ctx context.Context, origin, destination tracking.Coordinate) (tracking.Route, error)
	Start(ctx context.Context, req service.StartTrackingRequest) (*service.TrackingState, error)
	Stop(ctx context.Context, bookingID string) (*service.TrackingState, error)
	Position(ctx context.Context, bookingID string) (*service.TrackingState, error)
	Clear(ctx context.Context, bookingID string) error
	Nearby(ctx context.Context, center tracking.Coordinate, radiusKm float64) ([]redis.ShipmentLocation, error)
}

// TrackingHandler handles HTTP requests for routes and shipment tracking.
type TrackingHandler struct {
	trackingService TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// TrackingResponse is the HTTP response for a shipment's position.
type TrackingResponse struct {
	Success   bool                `json:"success"`
	BookingID string              `json:"bookingId"`
	Position  tracking.Coordinate `json:"position"`
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Active    bool                `json:"active"`
}

func toTrackingResponse(s *service.TrackingState) TrackingResponse {
	return TrackingResponse{
		Success:   true,
		BookingID: s.BookingID,
		Position:  s.Position,
		Index:     s.Progress.Index,
		Total:     s.Progress.Total,
		Active:    s.Progress.Active,
	}
}

// GetRoute handles GET /api/route?originLat=&originLng=&destLat=&destLng=
func (h *TrackingHandler) GetRoute(c *gin.Context) {
	origin, ok := coordinateQuery(c, "originLat", "originLng")
	if !ok {
		respondBadRequest(c, "originLat and originLng must be numbers")
		return
	}
	dest, ok := coordinateQuery(c, "destLat", "destLng")
	if !ok {
		respondBadRequest(c, "destLat and destLng must be numbers")
		return
	}

	route, err := h.trackingService.Route(c.Request.Context(), origin, dest)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"route":   route,
	})
}

// StartTrackingRequest is the HTTP request body for starting a simulation.
type StartTrackingRequest struct {
	ClerkID     string              `json:"clerkId"`
	Origin      tracking.Coordinate `json:"origin"`
	Destination tracking.Coordinate `json:"destination"`
}

// StartTracking handles POST /api/tracking/:bookingId/start
func (h *TrackingHandler) StartTracking(c *gin.Context) {
	var req StartTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.ClerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, req.ClerkID)

	state, err := h.trackingService.Start(c.Request.Context(), service.StartTrackingRequest{
		BookingID:   c.Param("bookingId"),
		ClerkID:     req.ClerkID,
		Origin:      req.Origin,
		Destination: req.Destination,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusAccepted, toTrackingResponse(state))
}

// StopTracking handles POST /api/tracking/:bookingId/stop
func (h *TrackingHandler) StopTracking(c *gin.Context) {
	state, err := h.trackingService.Stop(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(state))
}

// GetPosition handles GET /api/tracking/:bookingId
func (h *TrackingHandler) GetPosition(c *gin.Context) {
	state, err := h.trackingService.Position(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTrackingResponse(state))
}

// ClearTracking handles DELETE /api/tracking/:bookingId
func (h *TrackingHandler) ClearTracking(c *gin.Context) {
	if err := h.trackingService.Clear(c.Request.Context(), c.Param("bookingId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Nearby handles GET /api/admin/tracking/nearby?lat=&lng=&radius=
func (h *TrackingHandler) Nearby(c *gin.Context) {
	center, ok := coordinateQuery(c, "lat", "lng")
	if !ok {
		respondBadRequest(c, "lat and lng must be numbers")
		return
	}
	radius := 5.0
	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondBadRequest(c, "radius must be a number")
			return
		}
		radius = r
	}

	shipments, err := h.trackingService.Nearby(c.Request.Context(), center, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":   true,
		"shipments": shipments,
	})
}

func coordinateQuery(c *gin.Context, latKey, lngKey string) (tracking.Coordinate, bool) {
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		return tracking.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(c.Query(lngKey), 64)
	if err != nil {
		return tracking.Coordinate{}, false
	}
	return tracking.Coordinate{Lat: lat, Lng: lng}, true
}
