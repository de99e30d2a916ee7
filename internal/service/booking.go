package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courier/internal/domain"
	"courier/internal/pricing"
	"courier/internal/redis"
	"courier/internal/repository"
)

// BookingService handles booking operations.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	cache               redis.BookingListCache
	notificationService *NotificationService
	logger              *zap.Logger
}

// NewBookingService creates a new BookingService. cache may be nil.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	cache redis.BookingListCache,
	notificationService *NotificationService,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookingRepo:         bookingRepo,
		cache:               cache,
		notificationService: notificationService,
		logger:              logger,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	ClerkID       string
	Sender        domain.Party
	Receiver      domain.Party
	PackageType   domain.PackageType
	IsFragile     bool
	HasTracking   bool
	Description   string
	Weight        float64
	ImageURL      string
	DeliveryMeans string
	// Amount is the client-computed charge. Zero means "price it for me".
	Amount float64
}

// CreateBooking validates and stores a new pending booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if strings.TrimSpace(req.ClerkID) == "" {
		return nil, ErrInvalidClerkID
	}
	if err := validateParty("sender", req.Sender); err != nil {
		return nil, err
	}
	if err := validateParty("receiver", req.Receiver); err != nil {
		return nil, err
	}
	if !req.PackageType.Valid() {
		return nil, ErrInvalidPackageType
	}
	if !domain.ValidWeight(req.Weight) {
		return nil, ErrInvalidWeight
	}
	if !slices.Contains(domain.DeliveryMeans, req.DeliveryMeans) {
		return nil, ErrInvalidDeliveryMeans
	}

	amount := pricing.Amount(req.IsFragile, req.HasTracking)
	if req.Amount > 0 && req.Amount != amount {
		return nil, ErrAmountMismatch
	}

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		ClerkID:       req.ClerkID,
		Sender:        trimParty(req.Sender),
		Receiver:      trimParty(req.Receiver),
		PackageType:   req.PackageType,
		IsFragile:     req.IsFragile,
		HasTracking:   req.HasTracking,
		Description:   strings.TrimSpace(req.Description),
		Weight:        req.Weight,
		ImageURL:      req.ImageURL,
		DeliveryMeans: req.DeliveryMeans,
		Amount:        amount,
		Status:        domain.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidate(ctx, booking.ClerkID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCreated(ctx, booking)
	}

	return booking, nil
}

func validateParty(role string, p domain.Party) error {
	required := []struct{ field, value string }{
		{"name", p.Name},
		{"location", p.Location},
		{"street", p.Street},
		{"estate", p.Estate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fieldError(ErrInvalidBooking, role+" "+r.field+" is required")
		}
	}
	if !isMobileNumber(p.Mobile) {
		return fieldError(ErrInvalidMobileNumber, role+" mobile")
	}
	return nil
}

func trimParty(p domain.Party) domain.Party {
	return domain.Party{
		Name:     strings.TrimSpace(p.Name),
		Mobile:   p.Mobile,
		Location: strings.TrimSpace(p.Location),
		Street:   strings.TrimSpace(p.Street),
		Estate:   strings.TrimSpace(p.Estate),
	}
}

func isMobileNumber(s string) bool {
	if len(s) != domain.MobileNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ListBookings returns a customer's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}

	if s.cache != nil {
		cached, err := s.cache.GetClerkBookings(ctx, clerkID)
		if err != nil {
			s.logger.Warn("booking cache read failed", zap.String("clerk_id", clerkID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	bookings, err := s.bookingRepo.ListByClerk(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetClerkBookings(ctx, clerkID, bookings); err != nil {
			s.logger.Warn("booking cache write failed", zap.String("clerk_id", clerkID), zap.Error(err))
		}
	}

	return bookings, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// UpdateStatus moves a booking to a new status.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if !status.Valid() {
		return nil, ErrInvalidBookingStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.invalidate(ctx, booking.ClerkID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingStatusChanged(ctx, booking)
	}

	return booking, nil
}

func (s *BookingService) invalidate(ctx context.Context, clerkID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateClerkBookings(ctx, clerkID); err != nil {
		s.logger.Warn("booking cache invalidation failed", zap.String("clerk_id", clerkID), zap.Error(err))
	}
}

// FieldError wraps a sentinel with the offending field.
type FieldError struct {
	Err   error
	Field string
}

func fieldError(err error, field string) error {
	return &FieldError{Err: err, Field: field}
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrInvalidBooking) || errors.Is(e.Err, ErrInvalidProfile) {
		return e.Field
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
