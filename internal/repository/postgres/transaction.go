package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `transaction_id, clerk_id, booking_id, amount, provider, transaction_type,
	description, phone_number, idempotency_key, created_at`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		t              domain.Transaction
		bookingID      sql.NullString
		phoneNumber    sql.NullString
		idempotencyKey sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.ClerkID,
		&bookingID,
		&t.Amount,
		&t.Provider,
		&t.Type,
		&t.Description,
		&phoneNumber,
		&idempotencyKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.BookingID = bookingID.String
	t.PhoneNumber = phoneNumber.String
	t.IdempotencyKey = idempotencyKey.String
	return &t, nil
}

// Create persists a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (clerk_id, booking_id, amount, provider, transaction_type, description, phone_number, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING transaction_id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		t.ClerkID,
		nullString(t.BookingID),
		t.Amount,
		t.Provider,
		t.Type,
		t.Description,
		nullString(t.PhoneNumber),
		nullString(t.IdempotencyKey),
	).Scan(&t.ID, &t.CreatedAt)

	return mapWriteError(err)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`

	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key.
// Returns nil if no transaction exists with the given key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1`

	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// GetByBookingID retrieves the debit or profit transaction that paid for a booking.
func (r *TransactionRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE booking_id = $1 AND transaction_type IN ('debit', 'profit')`

	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListRecentByClerk retrieves a customer's latest transactions, newest first.
func (r *TransactionRepository) ListRecentByClerk(ctx context.Context, clerkID string, limit int) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE clerk_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, clerkID, limit)
}

// List retrieves a page of transactions with a summary of all matches.
func (r *TransactionRepository) List(ctx context.Context, filter repository.TransactionFilter) ([]*domain.Transaction, repository.TransactionSummary, error) {
	var w whereBuilder
	if filter.Search != "" {
		w.add(`(clerk_id ILIKE ? OR phone_number ILIKE ? OR description ILIKE ?)`, "%"+filter.Search+"%")
	}
	if filter.Provider != "" {
		w.add(`provider = ?`, filter.Provider)
	}
	if filter.Type != "" {
		w.add(`transaction_type = ?`, filter.Type)
	}
	if !filter.Date.IsZero() {
		w.add(`created_at::date = ?`, filter.Date.Format(dateOnly))
	}

	var summary repository.TransactionSummary
	summaryQuery := `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM transactions` + w.sql()
	if err := r.q.QueryRowContext(ctx, summaryQuery, w.args...).Scan(&summary.Count, &summary.Volume); err != nil {
		return nil, summary, err
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.sql() + ` ORDER BY created_at DESC` + limit
	txns, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, summary, err
	}
	return txns, summary, nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
