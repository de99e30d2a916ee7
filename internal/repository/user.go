package repository

import (
	"context"

	"courier/internal/domain"
)

// UserFilter narrows a paged user listing.
type UserFilter struct {
	Search string // matches name, email or clerk id
	Limit  int
	Offset int
}

// UserRepository defines the persistence operations for customer accounts.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByClerkID retrieves a user by clerk id.
	GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error)

	// GetBalanceForUpdate reads a wallet balance and locks the user row
	// until the surrounding transaction ends.
	GetBalanceForUpdate(ctx context.Context, clerkID string) (float64, error)

	// AdjustBalance adds delta to the wallet balance and returns the new balance.
	AdjustBalance(ctx context.Context, clerkID string, delta float64) (float64, error)

	// List retrieves a page of users and the total matching the filter.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
}

// ProfileRepository defines the persistence operations for profiles.
type ProfileRepository interface {
	// Upsert creates or replaces the profile for its clerk id.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// GetByClerkID retrieves a profile by clerk id.
	GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error)
}

// AdminRepository defines the persistence operations behind the dashboard.
type AdminRepository interface {
	// Create adds a dashboard operator.
	Create(ctx context.Context, admin *domain.Admin) error

	// GetByEmail retrieves a dashboard operator by email.
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)

	// Stats computes the dashboard headline numbers.
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}
