package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
	"courier/internal/repository/postgres"
)

// paymentLockTTL bounds how long one attempt may hold a booking.
const paymentLockTTL = 30 * time.Second

// MobileMoneyCharge is a request to pull funds from a subscriber's account.
type MobileMoneyCharge struct {
	Provider    domain.Provider
	PhoneNumber string
	Amount      float64
	Reference   string
}

// MobileMoneyGateway is the interface for a mobile-money collection provider.
type MobileMoneyGateway interface {
	Charge(ctx context.Context, charge MobileMoneyCharge) (bool, error)
}

// MockGateway approves every charge.
type MockGateway struct{}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Charge simulates a collection request. Always succeeds.
func (g *MockGateway) Charge(ctx context.Context, charge MobileMoneyCharge) (bool, error) {
	return true, nil
}

// PaymentService pays bookings from the wallet or by mobile money.
type PaymentService struct {
	db                  *sql.DB
	bookingRepo         repository.BookingRepository
	transactionRepo     repository.TransactionRepository
	locks               redis.LockStoreInterface
	gateway             MobileMoneyGateway
	cache               redis.BookingListCache
	notificationService *NotificationService
	logger              *zap.Logger
}

// NewPaymentService creates a new PaymentService. locks and cache may be nil.
func NewPaymentService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	transactionRepo repository.TransactionRepository,
	locks redis.LockStoreInterface,
	gateway MobileMoneyGateway,
	cache redis.BookingListCache,
	notificationService *NotificationService,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		db:                  db,
		bookingRepo:         bookingRepo,
		transactionRepo:     transactionRepo,
		locks:               locks,
		gateway:             gateway,
		cache:               cache,
		notificationService: notificationService,
		logger:              logger,
	}
}

// PayBookingRequest contains the parameters for paying a booking.
type PayBookingRequest struct {
	BookingID      string
	ClerkID        string
	Method         domain.PaymentMethod
	Provider       string
	PhoneNumber    string
	IdempotencyKey string
}

// PayBookingResponse contains the result of a payment.
type PayBookingResponse struct {
	Transaction *domain.Transaction
	Booking     *domain.Booking
	// Balance is the wallet balance after a wallet payment.
	Balance float64
	// Replayed is set when the key matched an earlier successful payment.
	Replayed bool
}

// PayBooking charges a pending booking and marks it complete. The booking
// row lock, the balance change, the ledger entry and the status change
// commit together or not at all. Repeating a request with the same
// idempotency key returns the original payment.
func (s *PaymentService) PayBooking(ctx context.Context, req PayBookingRequest) (*PayBookingResponse, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.ClerkID == "" {
		return nil, ErrInvalidClerkID
	}

	var provider domain.Provider
	phone := strings.TrimSpace(req.PhoneNumber)
	switch req.Method {
	case domain.PaymentMethodWallet:
		provider = domain.ProviderWallet
		phone = ""
	case domain.PaymentMethodMobileMoney:
		p, ok := domain.ParseProvider(req.Provider)
		if !ok || !p.IsMobileMoney() {
			return nil, ErrInvalidProvider
		}
		if !p.AcceptsNumber(phone) {
			return nil, ErrInvalidPhoneNumber
		}
		provider = p
	default:
		return nil, ErrInvalidPaymentMethod
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.New().String()
	}

	existing, err := s.transactionRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.BookingID != req.BookingID || existing.ClerkID != req.ClerkID {
			return nil, ErrIdempotencyKeyReused
		}
		booking, err := s.bookingRepo.GetByID(ctx, existing.BookingID)
		if err != nil {
			return nil, fmt.Errorf("load paid booking: %w", err)
		}
		return &PayBookingResponse{Transaction: existing, Booking: booking, Replayed: true}, nil
	}

	if s.locks != nil {
		token, err := s.locks.AcquirePaymentLock(ctx, req.BookingID, paymentLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire payment lock: %w", err)
		}
		if token == "" {
			return nil, ErrPaymentInProgress
		}
		defer func() {
			if err := s.locks.ReleasePaymentLock(context.WithoutCancel(ctx), req.BookingID, token); err != nil {
				s.logger.Warn("failed to release payment lock", zap.String("booking_id", req.BookingID), zap.Error(err))
			}
		}()
	}

	resp, err := s.pay(ctx, req, provider, phone, key)
	if err != nil {
		return nil, err
	}
	if resp.Replayed {
		return resp, nil
	}

	if s.cache != nil {
		if err := s.cache.InvalidateClerkBookings(ctx, req.ClerkID); err != nil {
			s.logger.Warn("booking cache invalidation failed", zap.String("clerk_id", req.ClerkID), zap.Error(err))
		}
	}
	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentCompleted(ctx, resp.Transaction)
	}

	s.logger.Info("booking paid",
		zap.String("booking_id", req.BookingID),
		zap.Int64("transaction_id", resp.Transaction.ID),
		zap.String("provider", string(provider)),
		zap.Float64("amount", resp.Transaction.Amount),
	)
	return resp, nil
}

func (s *PaymentService) pay(ctx context.Context, req PayBookingRequest, provider domain.Provider, phone, key string) (*PayBookingResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)
	txUserRepo := postgres.NewUserRepositoryWithTx(tx)
	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(tx)

	booking, err := txBookingRepo.GetByIDForUpdate(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClerkID != req.ClerkID {
		return nil, ErrBookingNotOwned
	}

	switch booking.Status {
	case domain.BookingStatusPending:
	case domain.BookingStatusComplete:
		paid, err := txTransactionRepo.GetByBookingID(ctx, booking.ID)
		if err == nil && paid.IdempotencyKey == key {
			return &PayBookingResponse{Transaction: paid, Booking: booking, Replayed: true}, nil
		}
		return nil, ErrBookingAlreadyPaid
	default:
		return nil, ErrBookingNotPayable
	}

	txn := &domain.Transaction{
		ClerkID:        req.ClerkID,
		BookingID:      booking.ID,
		Amount:         booking.Amount,
		Provider:       provider,
		Description:    "Payment for booking " + booking.ID,
		PhoneNumber:    phone,
		IdempotencyKey: key,
	}

	var balance float64
	if provider == domain.ProviderWallet {
		txn.Type = domain.TransactionDebit
		balance, err = debitWallet(ctx, txUserRepo, req.ClerkID, booking.Amount)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	} else {
		txn.Type = domain.TransactionProfit
		approved, err := s.gateway.Charge(ctx, MobileMoneyCharge{
			Provider:    provider,
			PhoneNumber: phone,
			Amount:      booking.Amount,
			Reference:   key,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
		}
		if !approved {
			return nil, ErrPaymentDeclined
		}
	}

	if err := txTransactionRepo.Create(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBookingAlreadyPaid
		}
		return nil, err
	}

	if err := txBookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusComplete); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	booking.Status = domain.BookingStatusComplete
	return &PayBookingResponse{Transaction: txn, Booking: booking, Balance: balance}, nil
}

// GetPayment retrieves a transaction by ID.
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*domain.Transaction, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.transactionRepo.GetByID(ctx, id)
}
