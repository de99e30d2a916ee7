package repository

import (
	"context"
	"time"

	"courier/internal/domain"
)

// BookingFilter narrows a paged booking listing.
type BookingFilter struct {
	Search string // matches sender or receiver name, or booking id
	Status domain.BookingStatus
	Date   time.Time // bookings created on this calendar day, when set
	Limit  int
	Offset int
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByIDForUpdate retrieves a booking and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)

	// ListByClerk retrieves a customer's bookings, newest first.
	ListByClerk(ctx context.Context, clerkID string) ([]*domain.Booking, error)

	// List retrieves a page of bookings and the total matching the filter.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, int64, error)

	// UpdateStatus updates the status of a booking.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}
