package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"courier/internal/domain"
	"courier/internal/repository"
)

// AdminPageSize is the number of rows per dashboard page.
const AdminPageSize = 10

// TokenIssuer signs dashboard session tokens.
type TokenIssuer interface {
	Issue(adminID, email string) (string, time.Time, error)
}

// AdminService backs the operator dashboard.
type AdminService struct {
	adminRepo       repository.AdminRepository
	bookingRepo     repository.BookingRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	bookingService  *BookingService
	tokens          TokenIssuer
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	adminRepo repository.AdminRepository,
	bookingRepo repository.BookingRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	bookingService *BookingService,
	tokens TokenIssuer,
) *AdminService {
	return &AdminService{
		adminRepo:       adminRepo,
		bookingRepo:     bookingRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		bookingService:  bookingService,
		tokens:          tokens,
	}
}

// LoginResponse contains a signed session for an operator.
type LoginResponse struct {
	Token     string
	ExpiresAt time.Time
	Admin     *domain.Admin
}

// Login checks an operator's password and issues a session token.
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// EnsureAdmin creates an operator unless one exists with the same email.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, name, password string) (*domain.Admin, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.adminRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Stats returns the dashboard headline numbers.
func (s *AdminService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.adminRepo.Stats(ctx)
}

// ListQuery is a dashboard listing request.
type ListQuery struct {
	Page     int
	Search   string
	Status   string
	Provider string
	Type     string
	Date     string // YYYY-MM-DD
}

func (q ListQuery) offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * AdminPageSize
}

func (q ListQuery) date() (time.Time, error) {
	if q.Date == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, q.Date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// BookingPage is one page of the booking listing.
type BookingPage struct {
	Bookings []*domain.Booking
	Total    int64
}

// ListBookings returns a page of bookings matching the query.
func (s *AdminService) ListBookings(ctx context.Context, q ListQuery) (*BookingPage, error) {
	date, err := q.date()
	if err != nil {
		return nil, err
	}
	status := domain.BookingStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, ErrInvalidBookingStatus
	}

	bookings, total, err := s.bookingRepo.List(ctx, repository.BookingFilter{
		Search: strings.TrimSpace(q.Search),
		Status: status,
		Date:   date,
		Limit:  AdminPageSize,
		Offset: q.offset(),
	})
	if err != nil {
		return nil, err
	}
	return &BookingPage{Bookings: bookings, Total: total}, nil
}

// GetBooking retrieves a booking by ID.
func (s *AdminService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingService.GetBooking(ctx, id)
}

// UpdateBookingStatus moves a booking to a new status.
func (s *AdminService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	return s.bookingService.UpdateStatus(ctx, id, status)
}

// PaymentPage is one page of the transaction listing.
type PaymentPage struct {
	Transactions []*domain.Transaction
	Summary      repository.TransactionSummary
}

// ListPayments returns a page of transactions matching the query.
func (s *AdminService) ListPayments(ctx context.Context, q ListQuery) (*PaymentPage, error) {
	date, err := q.date()
	if err != nil {
		return nil, err
	}

	var provider domain.Provider
	if q.Provider != "" {
		p, ok := domain.ParseProvider(q.Provider)
		if !ok {
			return nil, ErrInvalidProvider
		}
		provider = p
	}
	txnType := domain.TransactionType(q.Type)
	if txnType != "" && !txnType.Valid() {
		return nil, ErrInvalidTransactionType
	}

	txns, summary, err := s.transactionRepo.List(ctx, repository.TransactionFilter{
		Search:   strings.TrimSpace(q.Search),
		Provider: provider,
		Type:     txnType,
		Date:     date,
		Limit:    AdminPageSize,
		Offset:   q.offset(),
	})
	if err != nil {
		return nil, err
	}
	return &PaymentPage{Transactions: txns, Summary: summary}, nil
}

// GetPayment retrieves a transaction by ID.
func (s *AdminService) GetPayment(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users []*domain.User
	Total int64
}

// ListUsers returns a page of customers matching the query.
func (s *AdminService) ListUsers(ctx context.Context, q ListQuery) (*UserPage, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  AdminPageSize,
		Offset: q.offset(),
	})
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total}, nil
}

// CreateUserRequest contains the parameters for registering a customer.
type CreateUserRequest struct {
	ClerkID string
	Email   string
	Name    string
}

// CreateUser registers a customer with an empty wallet.
func (s *AdminService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if strings.TrimSpace(req.ClerkID) == "" {
		return nil, ErrInvalidClerkID
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fieldError(ErrInvalidProfile, "valid email is required")
	}

	user := &domain.User{
		ClerkID: strings.TrimSpace(req.ClerkID),
		Email:   strings.TrimSpace(req.Email),
		Name:    strings.TrimSpace(req.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a customer by clerk id.
func (s *AdminService) GetUser(ctx context.Context, clerkID string) (*domain.User, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
