package handler

import (
	"context"
	"time"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
	"courier/internal/service"
	"courier/internal/tracking"
)

type fakeBookingService struct {
	created   *service.CreateBookingRequest
	createErr error
	bookings  []*domain.Booking
	updateErr error
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*domain.Booking, error) {
	f.created = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Booking{ID: "b-1", ClerkID: req.ClerkID, Amount: 30000, Status: domain.BookingStatusPending}, nil
}

func (f *fakeBookingService) ListBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	b, err := f.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = status
	return b, nil
}

type fakeTransactionService struct {
	recorded  *service.RecordTransactionRequest
	recordErr error
	balance   float64
	balErr    error
	recent    []*domain.Transaction
}

func (f *fakeTransactionService) Record(ctx context.Context, req service.RecordTransactionRequest) (*service.RecordTransactionResponse, error) {
	f.recorded = &req
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &service.RecordTransactionResponse{
		Transaction: &domain.Transaction{ID: 7, ClerkID: req.ClerkID, Amount: req.Amount, Type: req.Type},
		Balance:     f.balance,
	}, nil
}

func (f *fakeTransactionService) ListRecent(ctx context.Context, clerkID string) ([]*domain.Transaction, error) {
	return f.recent, nil
}

func (f *fakeTransactionService) Balance(ctx context.Context, clerkID string) (float64, error) {
	return f.balance, f.balErr
}

type fakePaymentService struct {
	req       *service.PayBookingRequest
	err       error
	replayed  bool
	noBooking bool
	txn       *domain.Transaction
}

func (f *fakePaymentService) PayBooking(ctx context.Context, req service.PayBookingRequest) (*service.PayBookingResponse, error) {
	f.req = &req
	if f.err != nil {
		return nil, f.err
	}
	resp := &service.PayBookingResponse{
		Transaction: &domain.Transaction{ID: 9, ClerkID: req.ClerkID, BookingID: req.BookingID, IdempotencyKey: req.IdempotencyKey},
		Booking:     &domain.Booking{ID: req.BookingID, ClerkID: req.ClerkID, Status: domain.BookingStatusComplete},
		Replayed:    f.replayed,
	}
	if f.noBooking {
		resp.Booking = nil
	}
	return resp, nil
}

func (f *fakePaymentService) GetPayment(ctx context.Context, id int64) (*domain.Transaction, error) {
	if f.txn == nil || f.txn.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.txn, nil
}

type fakeProfileService struct {
	saved   *service.SaveProfileRequest
	profile *domain.Profile
}

func (f *fakeProfileService) SaveProfile(ctx context.Context, req service.SaveProfileRequest) (*domain.Profile, error) {
	f.saved = &req
	return &domain.Profile{ClerkID: req.ClerkID, Name: req.Name, ImageName: req.ImageName}, nil
}

func (f *fakeProfileService) GetProfile(ctx context.Context, clerkID string) (*domain.Profile, error) {
	return f.profile, nil
}

type fakeTrackingService struct {
	route    tracking.Route
	routeErr error
	started  *service.StartTrackingRequest
	state    *service.TrackingState
	stateErr error
	cleared  string
	nearby   []redis.ShipmentLocation
	radius   float64
}

func (f *fakeTrackingService) Route(ctx context.Context, origin, destination tracking.Coordinate) (tracking.Route, error) {
	return f.route, f.routeErr
}

func (f *fakeTrackingService) Start(ctx context.Context, req service.StartTrackingRequest) (*service.TrackingState, error) {
	f.started = &req
	return f.state, f.stateErr
}

func (f *fakeTrackingService) Stop(ctx context.Context, bookingID string) (*service.TrackingState, error) {
	return f.state, f.stateErr
}

func (f *fakeTrackingService) Position(ctx context.Context, bookingID string) (*service.TrackingState, error) {
	return f.state, f.stateErr
}

func (f *fakeTrackingService) Clear(ctx context.Context, bookingID string) error {
	f.cleared = bookingID
	return nil
}

func (f *fakeTrackingService) Nearby(ctx context.Context, center tracking.Coordinate, radiusKm float64) ([]redis.ShipmentLocation, error) {
	f.radius = radiusKm
	return f.nearby, nil
}

type fakeReceiptService struct {
	clerkID string
	err     error
}

func (f *fakeReceiptService) GenerateReceipt(ctx context.Context, bookingID, clerkID string) (*domain.Receipt, error) {
	f.clerkID = clerkID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Receipt{Booking: &domain.Booking{ID: bookingID}, IssuedAt: time.Now()}, nil
}

func (f *fakeReceiptService) RenderPDF(receipt *domain.Receipt) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type fakeAdminService struct {
	loginErr  error
	lastQuery service.ListQuery
	users     map[string]*domain.User
}

func (f *fakeAdminService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &service.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
		Admin:     &domain.Admin{ID: "a-1", Email: email},
	}, nil
}

func (f *fakeAdminService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalUsers: 3, TotalBookings: 5, TotalRevenue: 75000, PendingBookings: 2}, nil
}

func (f *fakeAdminService) ListBookings(ctx context.Context, q service.ListQuery) (*service.BookingPage, error) {
	f.lastQuery = q
	if q.Status != "" && !domain.BookingStatus(q.Status).Valid() {
		return nil, service.ErrInvalidBookingStatus
	}
	return &service.BookingPage{Bookings: []*domain.Booking{{ID: "b-1"}}, Total: 11}, nil
}

func (f *fakeAdminService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAdminService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	return &domain.Booking{ID: id, Status: status}, nil
}

func (f *fakeAdminService) ListPayments(ctx context.Context, q service.ListQuery) (*service.PaymentPage, error) {
	f.lastQuery = q
	return &service.PaymentPage{Summary: repository.TransactionSummary{Count: 4, Volume: 100000}}, nil
}

func (f *fakeAdminService) GetPayment(ctx context.Context, id int64) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (f *fakeAdminService) ListUsers(ctx context.Context, q service.ListQuery) (*service.UserPage, error) {
	f.lastQuery = q
	return &service.UserPage{}, nil
}

func (f *fakeAdminService) CreateUser(ctx context.Context, req service.CreateUserRequest) (*domain.User, error) {
	if _, ok := f.users[req.ClerkID]; ok {
		return nil, repository.ErrDuplicate
	}
	u := &domain.User{ClerkID: req.ClerkID, Email: req.Email, Name: req.Name}
	f.users[req.ClerkID] = u
	return u, nil
}

func (f *fakeAdminService) GetUser(ctx context.Context, clerkID string) (*domain.User, error) {
	u, ok := f.users[clerkID]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

var (
	_ BookingService     = (*fakeBookingService)(nil)
	_ TransactionService = (*fakeTransactionService)(nil)
	_ PaymentService     = (*fakePaymentService)(nil)
	_ ProfileService     = (*fakeProfileService)(nil)
	_ TrackingService    = (*fakeTrackingService)(nil)
	_ ReceiptService     = (*fakeReceiptService)(nil)
	_ AdminService       = (*fakeAdminService)(nil)

	_ BookingService     = (*service.BookingService)(nil)
	_ TransactionService = (*service.TransactionService)(nil)
	_ PaymentService     = (*service.PaymentService)(nil)
	_ ProfileService     = (*service.ProfileService)(nil)
	_ TrackingService    = (*service.TrackingService)(nil)
	_ ReceiptService     = (*service.ReceiptService)(nil)
	_ AdminService       = (*service.AdminService)(nil)
)
