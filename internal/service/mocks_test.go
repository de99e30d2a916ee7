package service

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
	"courier/internal/tracking"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	CreateCallCount       int32
	ListByClerkCallCount  int32
	UpdateStatusCallCount int32

	CreateError error
	LastFilter  repository.BookingFilter
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *MockBookingRepository) ListByClerk(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	atomic.AddInt32(&m.ListByClerkCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.ClerkID == clerkID {
			copy := *b
			result = append(result, &copy)
		}
	}
	slices.SortFunc(result, func(a, b *domain.Booking) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, int64, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if filter.Status == "" || b.Status == filter.Status {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, int64(len(result)), nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

type MockTransactionRepository struct {
	mu     sync.RWMutex
	txns   []*domain.Transaction
	nextID int64

	GetByIdempotencyKeyError error
	LastFilter               repository.TransactionFilter
	LastLimit                int
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{nextID: 1}
}

func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	m.txns = append(m.txns, t)
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	t.CreatedAt = time.Now()
	m.AddTransaction(t)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.ID == id {
			copy := *t
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	if m.GetByIdempotencyKeyError != nil {
		return nil, m.GetByIdempotencyKeyError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.IdempotencyKey == key {
			copy := *t
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.txns {
		if t.BookingID == bookingID && t.Type != domain.TransactionCredit {
			copy := *t
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTransactionRepository) ListRecentByClerk(ctx context.Context, clerkID string, limit int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	m.LastLimit = limit
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for i := len(m.txns) - 1; i >= 0 && len(result) < limit; i-- {
		if m.txns[i].ClerkID == clerkID {
			result = append(result, m.txns[i])
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter repository.TransactionFilter) ([]*domain.Transaction, repository.TransactionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	var summary repository.TransactionSummary
	for _, t := range m.txns {
		summary.Count++
		summary.Volume += t.Amount
	}
	return m.txns, summary, nil
}

// ──────────────────────────────────────────────
// MOCK USER / PROFILE / ADMIN REPOSITORIES
// ──────────────────────────────────────────────

type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateError error
	LastFilter  repository.UserFilter
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ClerkID] = u
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ClerkID]; ok {
		return repository.ErrDuplicate
	}
	u.CreatedAt = time.Now()
	m.users[u.ClerkID] = u
	return nil
}

func (m *MockUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (m *MockUserRepository) GetBalanceForUpdate(ctx context.Context, clerkID string) (float64, error) {
	u, err := m.GetByClerkID(ctx, clerkID)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, clerkID string, delta float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[clerkID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.Balance += delta
	return u.Balance, nil
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*domain.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, int64(len(result)), nil
}

type MockProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile

	UpsertCallCount int32
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{profiles: make(map[string]*domain.Profile)}
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ImageName == "" {
		if existing, ok := m.profiles[p.ClerkID]; ok {
			p.ImageName = existing.ImageName
		}
	}
	p.UpdatedAt = time.Now()
	copy := *p
	m.profiles[p.ClerkID] = &copy
	return nil
}

func (m *MockProfileRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[clerkID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

type MockAdminRepository struct {
	mu     sync.RWMutex
	admins map[string]*domain.Admin

	CreateCallCount int32
	StatsResult     domain.DashboardStats
}

func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{admins: make(map[string]*domain.Admin)}
}

func (m *MockAdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = time.Now()
	m.admins[a.Email] = a
	return nil
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (m *MockAdminRepository) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := m.StatsResult
	return &stats, nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

type MockBookingCache struct {
	mu      sync.Mutex
	entries map[string][]*domain.Booking

	GetCallCount        int32
	InvalidateCallCount int32
}

func NewMockBookingCache() *MockBookingCache {
	return &MockBookingCache{entries: make(map[string][]*domain.Booking)}
}

func (m *MockBookingCache) GetClerkBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[clerkID], nil
}

func (m *MockBookingCache) SetClerkBookings(ctx context.Context, clerkID string, bookings []*domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[clerkID] = bookings
	return nil
}

func (m *MockBookingCache) InvalidateClerkBookings(ctx context.Context, clerkID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, clerkID)
	return nil
}

type MockLockStore struct {
	mu   sync.Mutex
	held map[string]string

	ReleaseCallCount int32
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]string)}
}

func (m *MockLockStore) Hold(bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[bookingID] = "someone-else"
}

func (m *MockLockStore) AcquirePaymentLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[bookingID]; ok {
		return "", nil
	}
	m.held[bookingID] = "token-" + bookingID
	return m.held[bookingID], nil
}

func (m *MockLockStore) ReleasePaymentLock(ctx context.Context, bookingID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[bookingID] == token {
		delete(m.held, bookingID)
	}
	return nil
}

type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]redis.ShipmentLocation
	progress  map[string]redis.TrackingProgress

	UpdateCallCount int32
}

func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]redis.ShipmentLocation),
		progress:  make(map[string]redis.TrackingProgress),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, bookingID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[bookingID] = redis.ShipmentLocation{BookingID: bookingID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) GetLocation(ctx context.Context, bookingID string) (*redis.ShipmentLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[bookingID]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, bookingID)
	return nil
}

func (m *MockLocationStore) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]redis.ShipmentLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]redis.ShipmentLocation, 0, len(m.locations))
	for _, loc := range m.locations {
		out = append(out, loc)
	}
	return out, nil
}

func (m *MockLocationStore) SetProgress(ctx context.Context, bookingID string, p redis.TrackingProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[bookingID] = p
	return nil
}

func (m *MockLocationStore) GetProgress(ctx context.Context, bookingID string) (*redis.TrackingProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[bookingID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type MockRouteCache struct {
	mu     sync.Mutex
	routes map[string][]redis.RoutePoint
}

func NewMockRouteCache() *MockRouteCache {
	return &MockRouteCache{routes: make(map[string][]redis.RoutePoint)}
}

func (m *MockRouteCache) GetRoute(ctx context.Context, key string) ([]redis.RoutePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.routes[key], nil
}

func (m *MockRouteCache) SetRoute(ctx context.Context, key string, points []redis.RoutePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[key] = points
	return nil
}

// ──────────────────────────────────────────────
// MOCK COLLABORATORS
// ──────────────────────────────────────────────

type MockRouteProvider struct {
	Points    tracking.Route
	Err       error
	CallCount int32
}

func (m *MockRouteProvider) Route(ctx context.Context, origin, destination tracking.Coordinate) (tracking.Route, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Points, nil
}

type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
	Err      error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[routingKey] = append(m.Messages[routingKey], body)
	return nil
}

func (m *MockPublisher) Count(routingKey string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages[routingKey])
}

type MockMobileMoneyGateway struct {
	Approve bool
	Err     error
	Charges []MobileMoneyCharge
}

func (m *MockMobileMoneyGateway) Charge(ctx context.Context, charge MobileMoneyCharge) (bool, error) {
	m.Charges = append(m.Charges, charge)
	return m.Approve, m.Err
}

type MockTokenIssuer struct{}

func (MockTokenIssuer) Issue(adminID, email string) (string, time.Time, error) {
	if adminID == "" {
		return "", time.Time{}, errors.New("no subject")
	}
	return "token-" + adminID, time.Now().Add(time.Hour), nil
}

// ──────────────────────────────────────────────
// SQL FIXTURES
// ──────────────────────────────────────────────

var bookingColumnNames = []string{
	"id", "clerk_id",
	"sender_name", "sender_mobile", "sender_location", "sender_street", "sender_estate",
	"receiver_name", "receiver_mobile", "receiver_location", "receiver_street", "receiver_estate",
	"package_type", "is_fragile", "has_tracking", "description", "weight", "image_url", "delivery_means",
	"amount", "status", "created_at", "updated_at",
}

var transactionColumnNames = []string{
	"transaction_id", "clerk_id", "booking_id", "amount", "provider", "transaction_type",
	"description", "phone_number", "idempotency_key", "created_at",
}

func bookingRow(b *domain.Booking) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumnNames).AddRow(
		b.ID, b.ClerkID,
		b.Sender.Name, b.Sender.Mobile, b.Sender.Location, b.Sender.Street, b.Sender.Estate,
		b.Receiver.Name, b.Receiver.Mobile, b.Receiver.Location, b.Receiver.Street, b.Receiver.Estate,
		string(b.PackageType), b.IsFragile, b.HasTracking, b.Description, b.Weight, nil, b.DeliveryMeans,
		b.Amount, string(b.Status), now, now,
	)
}

func transactionRow(t *domain.Transaction) *sqlmock.Rows {
	return sqlmock.NewRows(transactionColumnNames).AddRow(
		t.ID, t.ClerkID, t.BookingID, t.Amount, string(t.Provider), string(t.Type),
		t.Description, t.PhoneNumber, t.IdempotencyKey, time.Now(),
	)
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testParty(name, mobile string) domain.Party {
	return domain.Party{
		Name:     name,
		Mobile:   mobile,
		Location: "Kampala",
		Street:   "Main St",
		Estate:   "Kololo",
	}
}

func testBooking(id, clerkID string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		ClerkID:       clerkID,
		Sender:        testParty("Ann", "0771234567"),
		Receiver:      testParty("Ben", "0701234567"),
		PackageType:   domain.PackageElectronics,
		IsFragile:     true,
		Description:   "laptop",
		Weight:        2.5,
		DeliveryMeans: "Nile Star",
		Amount:        25000,
		Status:        domain.BookingStatusPending,
	}
}
