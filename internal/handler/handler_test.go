package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/redis"
	"courier/internal/repository"
	"courier/internal/service"
	"courier/internal/tracking"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const bookingBody = `{
	"clerk_id": "clerk-1",
	"sender_name": "Ann", "sender_mobile": "0771234567", "sender_location": "Kampala",
	"sender_street": "Main", "sender_estate": "Kololo",
	"receiver_name": "Ben", "receiver_mobile": "0701234567", "receiver_location": "Jinja",
	"receiver_street": "Nile", "receiver_estate": "Walukuba",
	"selected_type": "Electronics", "is_fragile": true, "is_tracking": true,
	"description": "laptop", "weight": %s, "delivery_mean": "Nile Star",
	"image_url": "file:///local.jpg", "amount": 30000
}`

func bookingRouter(svc BookingService) *gin.Engine {
	h := NewBookingHandler(svc)
	r := gin.New()
	r.POST("/api/booking", h.CreateBooking)
	r.GET("/api/booking", h.ListBookings)
	r.PATCH("/api/booking", h.UpdateStatus)
	return r
}

func TestCreateBooking_Created(t *testing.T) {
	svc := &fakeBookingService{}
	w := serve(bookingRouter(svc), http.MethodPost, "/api/booking", fmt.Sprintf(bookingBody, `"2.5"`), nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "b-1", body["bookingId"])
	assert.Equal(t, 30000.0, body["amount"])

	require.NotNil(t, svc.created)
	assert.Equal(t, 2.5, svc.created.Weight)
	assert.Equal(t, domain.PackageElectronics, svc.created.PackageType)
	assert.Equal(t, "Walukuba", svc.created.Receiver.Estate)
	assert.Empty(t, svc.created.ImageURL, "device-local image paths are dropped")
}

func TestCreateBooking_NumericWeight(t *testing.T) {
	svc := &fakeBookingService{}
	w := serve(bookingRouter(svc), http.MethodPost, "/api/booking", fmt.Sprintf(bookingBody, `4`), nil)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4.0, svc.created.Weight)
}

func TestCreateBooking_NonNumericWeight(t *testing.T) {
	svc := &fakeBookingService{}
	w := serve(bookingRouter(svc), http.MethodPost, "/api/booking", fmt.Sprintf(bookingBody, `"heavy"`), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "weight must be a valid number", decode(t, w)["error"])
	assert.Nil(t, svc.created)
}

func TestCreateBooking_NonFiniteWeight(t *testing.T) {
	for _, weight := range []string{`"NaN"`, `"Inf"`, `"-infinity"`, `"1e400"`} {
		svc := &fakeBookingService{}
		w := serve(bookingRouter(svc), http.MethodPost, "/api/booking", fmt.Sprintf(bookingBody, weight), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, weight)
		assert.Nil(t, svc.created, weight)
	}
}

func TestCreateBooking_ValidationError(t *testing.T) {
	svc := &fakeBookingService{createErr: &service.FieldError{Err: service.ErrInvalidBooking, Field: "sender name is required"}}
	w := serve(bookingRouter(svc), http.MethodPost, "/api/booking", fmt.Sprintf(bookingBody, `"1"`), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "sender name is required", body["error"])
}

func TestListBookings(t *testing.T) {
	svc := &fakeBookingService{bookings: []*domain.Booking{{ID: "b-2", ClerkID: "clerk-1", Status: domain.BookingStatusPending}}}
	router := bookingRouter(svc)

	w := serve(router, http.MethodGet, "/api/booking", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/booking?clerkId=clerk-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	bookings := decode(t, w)["bookings"].([]any)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-2", bookings[0].(map[string]any)["id"])
}

func TestUpdateStatus(t *testing.T) {
	svc := &fakeBookingService{bookings: []*domain.Booking{{ID: "b-1", Status: domain.BookingStatusPending}}}
	router := bookingRouter(svc)

	w := serve(router, http.MethodPatch, "/api/booking", `{"bookingId":"b-1","status":"complete"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "complete", data["status"])

	w = serve(router, http.MethodPatch, "/api/booking", `{"bookingId":"missing","status":"complete"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodPatch, "/api/booking", `{"bookingId":"b-1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func transactionRouter(svc TransactionService) *gin.Engine {
	h := NewTransactionHandler(svc)
	r := gin.New()
	r.POST("/api/transactions", h.RecordTransaction)
	r.GET("/api/transactions", h.ListTransactions)
	r.GET("/api/balance", h.GetBalance)
	return r
}

func TestRecordTransaction(t *testing.T) {
	svc := &fakeTransactionService{balance: 15000}
	w := serve(transactionRouter(svc), http.MethodPost, "/api/transactions",
		`{"clerkId":"clerk-1","amount":5000,"provider":"mtn","transactionType":"credit","phoneNumber":"0771234567"}`, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, 7.0, data["transaction_id"])
	assert.Equal(t, "credit", data["transaction_type"])
	assert.Equal(t, 15000.0, body["balance"])
	assert.Equal(t, domain.TransactionCredit, svc.recorded.Type)
}

func TestRecordTransaction_InsufficientBalance(t *testing.T) {
	svc := &fakeTransactionService{recordErr: service.ErrInsufficientBalance}
	w := serve(transactionRouter(svc), http.MethodPost, "/api/transactions",
		`{"clerkId":"clerk-1","amount":5000,"provider":"wallet","transactionType":"debit"}`, nil)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "insufficient balance", decode(t, w)["error"])
}

func TestBalance(t *testing.T) {
	router := transactionRouter(&fakeTransactionService{balance: 42000})
	w := serve(router, http.MethodGet, "/api/balance?clerkId=clerk-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42000.0, decode(t, w)["balance"])

	router = transactionRouter(&fakeTransactionService{balErr: service.ErrUserNotFound})
	w = serve(router, http.MethodGet, "/api/balance?clerkId=ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTransactions(t *testing.T) {
	svc := &fakeTransactionService{recent: []*domain.Transaction{{ID: 3, Provider: domain.ProviderWallet, Type: domain.TransactionDebit}}}
	w := serve(transactionRouter(svc), http.MethodGet, "/api/transactions?clerkId=clerk-1", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	txns := decode(t, w)["transactions"].([]any)
	require.Len(t, txns, 1)
	assert.Equal(t, "wallet", txns[0].(map[string]any)["provider"])
}

func paymentRouter(svc PaymentService) *gin.Engine {
	h := NewPaymentHandler(svc)
	r := gin.New()
	r.POST("/api/payments", h.PayBooking)
	r.GET("/api/payments/:id", h.GetPayment)
	return r
}

func TestPayBooking_HeaderKeyWins(t *testing.T) {
	svc := &fakePaymentService{}
	w := serve(paymentRouter(svc), http.MethodPost, "/api/payments",
		`{"bookingId":"b-1","clerkId":"clerk-1","method":"wallet","idempotencyKey":"body-key"}`,
		map[string]string{middleware.IdempotencyHeader: "header-key"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "header-key", svc.req.IdempotencyKey)
	assert.Equal(t, domain.PaymentMethodWallet, svc.req.Method)
	body := decode(t, w)
	assert.Equal(t, "complete", body["booking"].(map[string]any)["status"])
	assert.Equal(t, false, body["replayed"])
}

func TestPayBooking_Replay(t *testing.T) {
	svc := &fakePaymentService{replayed: true}
	w := serve(paymentRouter(svc), http.MethodPost, "/api/payments",
		`{"bookingId":"b-1","clerkId":"clerk-1","method":"wallet","idempotencyKey":"body-key"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body-key", svc.req.IdempotencyKey)
	assert.Equal(t, true, decode(t, w)["replayed"])
}

func TestPayBooking_ReplayWithoutBooking(t *testing.T) {
	svc := &fakePaymentService{replayed: true, noBooking: true}
	w := serve(paymentRouter(svc), http.MethodPost, "/api/payments",
		`{"bookingId":"b-1","clerkId":"clerk-1","method":"wallet","idempotencyKey":"body-key"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["replayed"])
	assert.NotContains(t, body, "booking")
	assert.Equal(t, float64(9), body["transaction"].(map[string]any)["transaction_id"])
}

func TestPayBooking_ErrorStatuses(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{service.ErrInsufficientBalance, http.StatusPaymentRequired},
		{service.ErrBookingNotOwned, http.StatusForbidden},
		{service.ErrBookingAlreadyPaid, http.StatusConflict},
		{service.ErrPaymentInProgress, http.StatusConflict},
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: timeout", service.ErrPaymentDeclined), http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			svc := &fakePaymentService{err: tc.err}
			w := serve(paymentRouter(svc), http.MethodPost, "/api/payments",
				`{"bookingId":"b-1","clerkId":"clerk-1","method":"wallet"}`, nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestGetPayment_Ownership(t *testing.T) {
	svc := &fakePaymentService{txn: &domain.Transaction{ID: 5, ClerkID: "clerk-1"}}
	router := paymentRouter(svc)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/payments/5?clerkId=clerk-1", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/payments/5?clerkId=clerk-2", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/payments/6?clerkId=clerk-1", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/payments/abc?clerkId=clerk-1", "", nil).Code)
}

func TestSaveProfile_Multipart(t *testing.T) {
	svc := &fakeProfileService{}
	h := NewProfileHandler(svc)
	router := gin.New()
	router.POST("/api/profile", h.SaveProfile)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"clerkId": "clerk-1", "name": "Ann", "email": "ann@example.com",
		"mobile": "0771234567", "kin": "Ben", "gender": "F", "nin": "CM123",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("profileImage", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "avatar.png", svc.saved.ImageName)
	assert.Equal(t, "Ben", svc.saved.NextOfKin)
	assert.Equal(t, "avatar.png", decode(t, w)["profile"].(map[string]any)["image_name"])
}

func TestGetProfile_Absent(t *testing.T) {
	h := NewProfileHandler(&fakeProfileService{})
	router := gin.New()
	router.GET("/api/profile", h.GetProfile)

	w := serve(router, http.MethodGet, "/api/profile?clerkId=clerk-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["profile"])
}

func trackingRouter(svc TrackingService) *gin.Engine {
	h := NewTrackingHandler(svc)
	r := gin.New()
	r.GET("/api/route", h.GetRoute)
	r.POST("/api/tracking/:bookingId/start", h.StartTracking)
	r.POST("/api/tracking/:bookingId/stop", h.StopTracking)
	r.GET("/api/tracking/:bookingId", h.GetPosition)
	r.DELETE("/api/tracking/:bookingId", h.ClearTracking)
	r.GET("/api/admin/tracking/nearby", h.Nearby)
	return r
}

func TestStartTracking_RequiresClerkID(t *testing.T) {
	svc := &fakeTrackingService{state: &service.TrackingState{BookingID: "b-1"}}
	router := trackingRouter(svc)

	w := serve(router, http.MethodPost, "/api/tracking/b-1/start",
		`{"origin":{"lat":0.3,"lng":32.5},"destination":{"lat":0.4,"lng":33.2}}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing clerkId parameter", decode(t, w)["error"])
	assert.Nil(t, svc.started)
}

func TestGetRoute(t *testing.T) {
	svc := &fakeTrackingService{route: tracking.Route{{Lat: 0.1, Lng: 32.1}, {Lat: 0.2, Lng: 32.2}}}
	router := trackingRouter(svc)

	w := serve(router, http.MethodGet, "/api/route?originLat=0.1&originLng=32.1&destLat=0.2&destLng=32.2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["route"].([]any), 2)

	w = serve(router, http.MethodGet, "/api/route?originLat=x&originLng=32.1&destLat=0.2&destLng=32.2", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.routeErr = service.ErrRouteUnavailable
	w = serve(router, http.MethodGet, "/api/route?originLat=0.1&originLng=32.1&destLat=0.2&destLng=32.2", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTracking_StartAndPosition(t *testing.T) {
	svc := &fakeTrackingService{state: &service.TrackingState{
		BookingID: "b-1",
		Position:  tracking.Coordinate{Lat: 0.3, Lng: 32.5},
		Progress:  redis.TrackingProgress{Index: 0, Total: 12, Active: true},
	}}
	router := trackingRouter(svc)

	w := serve(router, http.MethodPost, "/api/tracking/b-1/start",
		`{"clerkId":"clerk-1","origin":{"lat":0.3,"lng":32.5},"destination":{"lat":0.4,"lng":33.2}}`, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "b-1", svc.started.BookingID)
	assert.Equal(t, 33.2, svc.started.Destination.Lng)
	assert.Equal(t, 12.0, decode(t, w)["total"])

	w = serve(router, http.MethodGet, "/api/tracking/b-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["active"])

	svc.stateErr = service.ErrTrackingNotStarted
	w = serve(router, http.MethodPost, "/api/tracking/b-1/stop", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodDelete, "/api/tracking/b-1", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "b-1", svc.cleared)
}

func TestNearby_DefaultRadius(t *testing.T) {
	svc := &fakeTrackingService{nearby: []redis.ShipmentLocation{{BookingID: "b-1", Lat: 0.3, Lng: 32.5}}}
	router := trackingRouter(svc)

	w := serve(router, http.MethodGet, "/api/admin/tracking/nearby?lat=0.3&lng=32.5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, svc.radius)
	shipments := decode(t, w)["shipments"].([]any)
	assert.Equal(t, "b-1", shipments[0].(map[string]any)["bookingId"])
}

func TestGetReceipt(t *testing.T) {
	svc := &fakeReceiptService{}
	h := NewReceiptHandler(svc)
	router := gin.New()
	router.GET("/api/booking/:id/receipt", h.GetReceipt)

	w := serve(router, http.MethodGet, "/api/booking/b-1/receipt?clerkId=clerk-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-b-1.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, "clerk-1", svc.clerkID)

	w = serve(router, http.MethodGet, "/api/booking/b-1/receipt", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = service.ErrBookingNotOwned
	w = serve(router, http.MethodGet, "/api/booking/b-1/receipt?clerkId=clerk-2", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func adminRouter(svc AdminService) *gin.Engine {
	h := NewAdminHandler(svc)
	r := gin.New()
	r.POST("/api/admin/login", h.Login)
	r.GET("/api/admin/stats", h.Stats)
	r.GET("/api/admin/bookings", h.ListBookings)
	r.GET("/api/admin/bookings/:id", h.GetBooking)
	r.PATCH("/api/admin/bookings/:id/status", h.UpdateBookingStatus)
	r.GET("/api/admin/payments", h.ListPayments)
	r.GET("/api/admin/payments/:id", h.GetPayment)
	r.GET("/api/admin/users", h.ListUsers)
	r.POST("/api/admin/users", h.CreateUser)
	r.GET("/api/admin/users/:id", h.GetUser)
	return r
}

func TestAdminLogin(t *testing.T) {
	svc := &fakeAdminService{}
	router := adminRouter(svc)

	w := serve(router, http.MethodPost, "/api/admin/login", `{"email":"ops@example.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed-token", decode(t, w)["token"])

	svc.loginErr = service.ErrInvalidCredentials
	w = serve(router, http.MethodPost, "/api/admin/login", `{"email":"ops@example.com","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodPost, "/api/admin/login", `{"email":"ops@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminListBookings_Query(t *testing.T) {
	svc := &fakeAdminService{}
	router := adminRouter(svc)

	w := serve(router, http.MethodGet, "/api/admin/bookings?page=2&search=ann&status=pending&date=2024-05-01", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ListQuery{Page: 2, Search: "ann", Status: "pending", Date: "2024-05-01"}, svc.lastQuery)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, 11.0, data["total"])

	w = serve(router, http.MethodGet, "/api/admin/bookings?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/admin/bookings?status=shipped", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminPaymentsAndStats(t *testing.T) {
	router := adminRouter(&fakeAdminService{})

	w := serve(router, http.MethodGet, "/api/admin/payments?provider=mtn", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, 100000.0, data["volume"])

	w = serve(router, http.MethodGet, "/api/admin/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 75000.0, decode(t, w)["data"].(map[string]any)["totalRevenue"])

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/admin/bookings/x", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/api/admin/payments/x", "", nil).Code)
}

func TestAdminUsers(t *testing.T) {
	router := adminRouter(&fakeAdminService{users: map[string]*domain.User{}})

	body := `{"clerkId":"clerk-1","email":"ann@example.com","name":"Ann"}`
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/admin/users", body, nil).Code)
	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, "/api/admin/users", body, nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/admin/users/clerk-1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/admin/users/ghost", "", nil).Code)
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", service.ErrInvalidDate), http.StatusBadRequest},
		{&service.FieldError{Err: service.ErrInvalidMobileNumber, Field: "sender mobile"}, http.StatusBadRequest},
		{service.ErrTrackingNotEnabled, http.StatusBadRequest},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrIdempotencyKeyReused, http.StatusConflict},
		{repository.ErrDuplicate, http.StatusConflict},
		{service.ErrRouteUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, mapErrorToHTTPStatus(tc.err), tc.err.Error())
	}
}
