package repository

import (
	"context"
	"time"

	"courier/internal/domain"
)

// TransactionFilter narrows a paged transaction listing.
type TransactionFilter struct {
	Search   string // matches clerk id, phone number or description
	Provider domain.Provider
	Type     domain.TransactionType
	Date     time.Time
	Limit    int
	Offset   int
}

// TransactionSummary aggregates the transactions matching a filter.
type TransactionSummary struct {
	Count  int64
	Volume float64
}

// TransactionRepository defines the persistence operations for transactions.
type TransactionRepository interface {
	// Create persists a new transaction and fills in its ID and CreatedAt.
	Create(ctx context.Context, txn *domain.Transaction) error

	// GetByID retrieves a transaction by ID.
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// GetByIdempotencyKey retrieves a transaction by its idempotency key.
	// Returns nil if no transaction exists with the given key.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// GetByBookingID retrieves the payment recorded against a booking.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error)

	// ListRecentByClerk retrieves a customer's latest transactions, newest first.
	ListRecentByClerk(ctx context.Context, clerkID string, limit int) ([]*domain.Transaction, error)

	// List retrieves a page of transactions with a summary of all matches.
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, TransactionSummary, error)
}
