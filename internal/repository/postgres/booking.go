package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courier/internal/domain"
	"courier/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, clerk_id,
	sender_name, sender_mobile, sender_location, sender_street, sender_estate,
	receiver_name, receiver_mobile, receiver_location, receiver_street, receiver_estate,
	package_type, is_fragile, has_tracking, description, weight, image_url, delivery_means,
	amount, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b        domain.Booking
		imageURL sql.NullString
	)
	err := row.Scan(
		&b.ID,
		&b.ClerkID,
		&b.Sender.Name,
		&b.Sender.Mobile,
		&b.Sender.Location,
		&b.Sender.Street,
		&b.Sender.Estate,
		&b.Receiver.Name,
		&b.Receiver.Mobile,
		&b.Receiver.Location,
		&b.Receiver.Street,
		&b.Receiver.Estate,
		&b.PackageType,
		&b.IsFragile,
		&b.HasTracking,
		&b.Description,
		&b.Weight,
		&imageURL,
		&b.DeliveryMeans,
		&b.Amount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ImageURL = imageURL.String
	return &b, nil
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, clerk_id,
			sender_name, sender_mobile, sender_location, sender_street, sender_estate,
			receiver_name, receiver_mobile, receiver_location, receiver_street, receiver_estate,
			package_type, is_fragile, has_tracking, description, weight, image_url, delivery_means,
			amount, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		b.ID,
		b.ClerkID,
		b.Sender.Name,
		b.Sender.Mobile,
		b.Sender.Location,
		b.Sender.Street,
		b.Sender.Estate,
		b.Receiver.Name,
		b.Receiver.Mobile,
		b.Receiver.Location,
		b.Receiver.Street,
		b.Receiver.Estate,
		b.PackageType,
		b.IsFragile,
		b.HasTracking,
		b.Description,
		b.Weight,
		nullString(b.ImageURL),
		b.DeliveryMeans,
		b.Amount,
		b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	return mapWriteError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a booking and locks its row.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) getOne(ctx context.Context, query, id string) (*domain.Booking, error) {
	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListByClerk retrieves a customer's bookings, newest first.
func (r *BookingRepository) ListByClerk(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE clerk_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, clerkID)
}

// List retrieves a page of bookings and the total matching the filter.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int64, error) {
	var w whereBuilder
	if filter.Search != "" {
		w.add(`(sender_name ILIKE ? OR receiver_name ILIKE ? OR id::text ILIKE ?)`, "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		w.add(`status = ?`, filter.Status)
	}
	if !filter.Date.IsZero() {
		w.add(`created_at::date = ?`, filter.Date.Format(dateOnly))
	}

	var total int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := w.page(filter.Limit, filter.Offset)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + w.sql() + ` ORDER BY created_at DESC` + limit
	bookings, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// UpdateStatus updates the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
