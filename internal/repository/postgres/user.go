package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (clerk_id, email, name, balance) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query, user.ClerkID, user.Email, user.Name, user.Balance).Scan(&user.CreatedAt)
	return mapWriteError(err)
}

// GetByClerkID retrieves a user by clerk id.
func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	query := `SELECT clerk_id, email, name, balance, created_at FROM users WHERE clerk_id = $1`
	row := r.q.QueryRowContext(ctx, query, clerkID)

	var user domain.User
	err := row.Scan(&user.ClerkID, &user.Email, &user.Name, &user.Balance, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBalanceForUpdate reads a wallet balance and locks the user row.
func (r *UserRepository) GetBalanceForUpdate(ctx context.Context, clerkID string) (float64, error) {
	query := `SELECT balance FROM users WHERE clerk_id = $1 FOR UPDATE`

	var balance float64
	err := r.q.QueryRowContext(ctx, query, clerkID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return balance, err
}

// AdjustBalance adds delta to the wallet balance and returns the new balance.
func (r *UserRepository) AdjustBalance(ctx context.Context, clerkID string, delta float64) (float64, error) {
	query := `UPDATE users SET balance = balance + $1 WHERE clerk_id = $2 RETURNING balance`

	var balance float64
	err := r.q.QueryRowContext(ctx, query, delta, clerkID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return balance, err
}

// List retrieves a page of users and the total matching the filter.
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int64, error) {
	var w whereBuilder
	if filter.Search != "" {
		w.add(`(name ILIKE ? OR email ILIKE ? OR clerk_id ILIKE ?)`, "%"+filter.Search+"%")
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT clerk_id, email, name, balance, created_at FROM users` + w.sql() + ` ORDER BY created_at DESC` + limit
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ClerkID, &user.Email, &user.Name, &user.Balance, &user.CreatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, &user)
	}
	return users, total, rows.Err()
}
