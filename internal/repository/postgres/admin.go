package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// AdminRepository implements repository.AdminRepository using PostgreSQL.
type AdminRepository struct {
	q Querier
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{q: db}
}

// Create adds a dashboard operator.
func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `INSERT INTO admins (id, email, name, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query, a.ID, a.Email, a.Name, a.PasswordHash).Scan(&a.CreatedAt)
	return mapWriteError(err)
}

// GetByEmail retrieves a dashboard operator by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM admins WHERE lower(email) = lower($1)`

	var a domain.Admin
	err := r.q.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Stats computes the dashboard headline numbers.
// Revenue counts money received for bookings, not wallet top-ups.
func (r *AdminRepository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE transaction_type IN ('debit', 'profit')),
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending')
	`

	var s domain.DashboardStats
	err := r.q.QueryRowContext(ctx, query).Scan(&s.TotalUsers, &s.TotalBookings, &s.TotalRevenue, &s.PendingBookings)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
