package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"courier/internal/domain"
	"courier/internal/repository"
	"courier/internal/repository/postgres"
)

// RecentTransactionsLimit is how many transactions a customer's history shows.
const RecentTransactionsLimit = 10

// TransactionService handles wallet top-ups and the transaction ledger.
type TransactionService struct {
	db                  *sql.DB
	transactionRepo     repository.TransactionRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	db *sql.DB,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *TransactionService {
	return &TransactionService{
		db:                  db,
		transactionRepo:     transactionRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// RecordTransactionRequest contains the parameters for recording a transaction.
type RecordTransactionRequest struct {
	ClerkID     string
	Amount      float64
	Provider    string
	Type        domain.TransactionType
	Description string
	PhoneNumber string
}

// RecordTransactionResponse contains the stored transaction and resulting balance.
type RecordTransactionResponse struct {
	Transaction *domain.Transaction
	Balance     float64
}

// Record stores a transaction and applies it to the wallet in one database
// transaction: credit adds the amount, debit subtracts it, profit leaves the
// balance untouched.
func (s *TransactionService) Record(ctx context.Context, req RecordTransactionRequest) (*RecordTransactionResponse, error) {
	if req.ClerkID == "" {
		return nil, ErrInvalidClerkID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidTransactionType
	}
	provider, ok := domain.ParseProvider(req.Provider)
	if !ok {
		return nil, ErrInvalidProvider
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if provider.IsMobileMoney() && !provider.AcceptsNumber(phone) {
		return nil, ErrInvalidPhoneNumber
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txUserRepo := postgres.NewUserRepositoryWithTx(tx)
	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(tx)

	var balance float64
	switch req.Type {
	case domain.TransactionCredit:
		balance, err = txUserRepo.AdjustBalance(ctx, req.ClerkID, req.Amount)
	case domain.TransactionDebit:
		balance, err = debitWallet(ctx, txUserRepo, req.ClerkID, req.Amount)
	case domain.TransactionProfit:
		balance, err = txUserRepo.GetBalanceForUpdate(ctx, req.ClerkID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrUserNotFound
		}
		return nil, err
	}

	txn := &domain.Transaction{
		ClerkID:     req.ClerkID,
		Amount:      req.Amount,
		Provider:    provider,
		Type:        req.Type,
		Description: strings.TrimSpace(req.Description),
		PhoneNumber: phone,
	}
	if err = txTransactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if req.Type == domain.TransactionCredit && s.notificationService != nil {
		_ = s.notificationService.NotifyWalletCredited(ctx, txn, balance)
	}

	return &RecordTransactionResponse{Transaction: txn, Balance: balance}, nil
}

// debitWallet locks the user row, checks the balance and subtracts amount.
func debitWallet(ctx context.Context, users repository.UserRepository, clerkID string, amount float64) (float64, error) {
	balance, err := users.GetBalanceForUpdate(ctx, clerkID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientBalance
	}
	return users.AdjustBalance(ctx, clerkID, -amount)
}

// ListRecent returns a customer's latest transactions, newest first.
func (s *TransactionService) ListRecent(ctx context.Context, clerkID string) ([]*domain.Transaction, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	return s.transactionRepo.ListRecentByClerk(ctx, clerkID, RecentTransactionsLimit)
}

// Balance returns a customer's wallet balance.
func (s *TransactionService) Balance(ctx context.Context, clerkID string) (float64, error) {
	if clerkID == "" {
		return 0, ErrInvalidClerkID
	}
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.Balance, nil
}
