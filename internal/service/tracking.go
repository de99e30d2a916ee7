package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
	"courier/internal/tracking"
)

const trackingWriteTimeout = 2 * time.Second

// TrackingService resolves routes and animates tracked shipments along them.
type TrackingService struct {
	bookingRepo         repository.BookingRepository
	routes              tracking.RouteProvider
	routeCache          redis.RouteCache
	locations           redis.LocationStoreInterface
	notificationService *NotificationService
	logger              *zap.Logger
	stride              int
	interval            time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc

	mu         sync.Mutex
	simulators map[string]*tracking.Simulator
}

// TrackingConfig tunes the server-side simulation.
type TrackingConfig struct {
	Stride   int
	Interval time.Duration
}

// NewTrackingService creates a new TrackingService. routeCache may be nil.
func NewTrackingService(
	bookingRepo repository.BookingRepository,
	routes tracking.RouteProvider,
	routeCache redis.RouteCache,
	locations redis.LocationStoreInterface,
	notificationService *NotificationService,
	cfg TrackingConfig,
	logger *zap.Logger,
) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TrackingService{
		bookingRepo:         bookingRepo,
		routes:              routes,
		routeCache:          routeCache,
		locations:           locations,
		notificationService: notificationService,
		logger:              logger,
		stride:              cfg.Stride,
		interval:            cfg.Interval,
		baseCtx:             ctx,
		cancel:              cancel,
		simulators:          make(map[string]*tracking.Simulator),
	}
}

// Route returns the driving route between two points, from cache when possible.
func (s *TrackingService) Route(ctx context.Context, origin, destination tracking.Coordinate) (tracking.Route, error) {
	if err := origin.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	key := redis.RouteKey(origin.Lat, origin.Lng, destination.Lat, destination.Lng)
	if s.routeCache != nil {
		points, err := s.routeCache.GetRoute(ctx, key)
		if err != nil {
			s.logger.Warn("route cache read failed", zap.String("key", key), zap.Error(err))
		} else if len(points) > 0 {
			return fromRoutePoints(points), nil
		}
	}

	route, err := s.routes.Route(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	if len(route) == 0 {
		return nil, ErrRouteUnavailable
	}

	if s.routeCache != nil {
		if err := s.routeCache.SetRoute(ctx, key, toRoutePoints(route)); err != nil {
			s.logger.Warn("route cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return route, nil
}

// StartTrackingRequest contains the parameters for starting a simulation.
type StartTrackingRequest struct {
	BookingID   string
	ClerkID     string
	Origin      tracking.Coordinate
	Destination tracking.Coordinate
}

// TrackingState is the latest known position of a shipment.
type TrackingState struct {
	BookingID string
	Position  tracking.Coordinate
	Progress  redis.TrackingProgress
}

// Start begins moving the booking's marker from origin to destination.
// Starting a booking that is already moving restarts it from the origin.
func (s *TrackingService) Start(ctx context.Context, req StartTrackingRequest) (*TrackingState, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.ClerkID == "" {
		return nil, ErrInvalidClerkID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClerkID != req.ClerkID {
		return nil, ErrBookingNotOwned
	}
	if !booking.HasTracking {
		return nil, ErrTrackingNotEnabled
	}

	route, err := s.Route(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	state := &TrackingState{
		BookingID: booking.ID,
		Position:  route[0],
		Progress: redis.TrackingProgress{
			Index:     0,
			Total:     len(route),
			Active:    len(route) > 1,
			UpdatedAt: time.Now(),
		},
	}
	if err := s.record(ctx, booking.ID, state.Position, state.Progress); err != nil {
		return nil, err
	}

	sim := s.simulator(booking.ID)
	err = sim.Start(s.baseCtx, route, func(tick tracking.Tick) {
		s.onTick(booking, len(route), tick)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tracking started",
		zap.String("booking_id", booking.ID),
		zap.Int("points", len(route)),
	)
	return state, nil
}

func (s *TrackingService) onTick(booking *domain.Booking, total int, tick tracking.Tick) {
	ctx, cancel := context.WithTimeout(s.baseCtx, trackingWriteTimeout)
	defer cancel()

	progress := redis.TrackingProgress{
		Index:     tick.Index,
		Total:     total,
		Active:    !tick.Done,
		UpdatedAt: time.Now(),
	}
	if err := s.record(ctx, booking.ID, tick.Position, progress); err != nil {
		s.logger.Warn("failed to record shipment position", zap.String("booking_id", booking.ID), zap.Error(err))
	}

	if tick.Done {
		s.logger.Info("tracking completed", zap.String("booking_id", booking.ID), zap.Int("ticks", tick.N))
		if s.notificationService != nil {
			_ = s.notificationService.NotifyTrackingCompleted(ctx, booking)
		}
	}
}

func (s *TrackingService) record(ctx context.Context, bookingID string, pos tracking.Coordinate, progress redis.TrackingProgress) error {
	if err := s.locations.UpdateLocation(ctx, bookingID, pos.Lat, pos.Lng); err != nil {
		return err
	}
	return s.locations.SetProgress(ctx, bookingID, progress)
}

func (s *TrackingService) simulator(bookingID string) *tracking.Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()

	sim, ok := s.simulators[bookingID]
	if !ok {
		sim = tracking.NewSimulator(s.stride, s.interval)
		s.simulators[bookingID] = sim
	}
	return sim
}

// Stop halts a running simulation, leaving the marker where it is.
func (s *TrackingService) Stop(ctx context.Context, bookingID string) (*TrackingState, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	s.mu.Lock()
	sim, ok := s.simulators[bookingID]
	delete(s.simulators, bookingID)
	s.mu.Unlock()

	if !ok {
		return nil, ErrTrackingNotStarted
	}
	sim.Stop()

	state, err := s.Position(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if state.Progress.Active {
		state.Progress.Active = false
		state.Progress.UpdatedAt = time.Now()
		if err := s.locations.SetProgress(ctx, bookingID, state.Progress); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Position returns the latest recorded position of a shipment.
func (s *TrackingService) Position(ctx context.Context, bookingID string) (*TrackingState, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	loc, err := s.locations.GetLocation(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrTrackingNotStarted
	}

	state := &TrackingState{
		BookingID: bookingID,
		Position:  tracking.Coordinate{Lat: loc.Lat, Lng: loc.Lng},
	}

	progress, err := s.locations.GetProgress(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		state.Progress = *progress
	}
	return state, nil
}

// Clear stops any simulation and drops the shipment from the geo index.
func (s *TrackingService) Clear(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	s.mu.Lock()
	sim, ok := s.simulators[bookingID]
	delete(s.simulators, bookingID)
	s.mu.Unlock()

	if ok {
		sim.Stop()
	}
	return s.locations.RemoveLocation(ctx, bookingID)
}

// Nearby lists tracked shipments within radiusKm of center, nearest first.
func (s *TrackingService) Nearby(ctx context.Context, center tracking.Coordinate, radiusKm float64) ([]redis.ShipmentLocation, error) {
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidLocation)
	}
	return s.locations.FindNearby(ctx, center.Lat, center.Lng, radiusKm)
}

// Shutdown stops every running simulation.
func (s *TrackingService) Shutdown() {
	s.cancel()

	s.mu.Lock()
	sims := make([]*tracking.Simulator, 0, len(s.simulators))
	for id, sim := range s.simulators {
		sims = append(sims, sim)
		delete(s.simulators, id)
	}
	s.mu.Unlock()

	for _, sim := range sims {
		sim.Stop()
	}
}

func toRoutePoints(route tracking.Route) []redis.RoutePoint {
	points := make([]redis.RoutePoint, len(route))
	for i, c := range route {
		points[i] = redis.RoutePoint{Lat: c.Lat, Lng: c.Lng}
	}
	return points
}

func fromRoutePoints(points []redis.RoutePoint) tracking.Route {
	route := make(tracking.Route, len(points))
	for i, p := range points {
		route[i] = tracking.Coordinate{Lat: p.Lat, Lng: p.Lng}
	}
	return route
}
