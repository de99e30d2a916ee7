package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/service"
)

// PaymentService is the booking-payment behaviour the HTTP layer needs.
type PaymentService interface {
	PayBooking(ctx context.Context, req service.PayBookingRequest) (*service.PayBookingResponse, error)
	GetPayment(ctx context.Context, id int64) (*domain.Transaction, error)
}

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PayBookingRequest is the HTTP request body for paying a booking.
type PayBookingRequest struct {
	BookingID      string `json:"bookingId"`
	ClerkID        string `json:"clerkId"`
	Method         string `json:"method"`
	Provider       string `json:"provider"`
	PhoneNumber    string `json:"phoneNumber"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// PayBookingResponse is the HTTP response for a booking payment.
type PayBookingResponse struct {
	Success        bool                `json:"success"`
	Replayed       bool                `json:"replayed"`
	IdempotencyKey string              `json:"idempotencyKey"`
	Balance        float64             `json:"balance"`
	Transaction    TransactionResponse `json:"transaction"`
	Booking        *BookingResponse    `json:"booking,omitempty"`
}

// PayBooking handles POST /api/payments
func (h *PaymentHandler) PayBooking(c *gin.Context) {
	var req PayBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.BookingID == "" || req.ClerkID == "" {
		respondBadRequest(c, "bookingId and clerkId are required")
		return
	}
	c.Set(middleware.ClerkIDKey, req.ClerkID)

	key := c.GetHeader(middleware.IdempotencyHeader)
	if key == "" {
		key = req.IdempotencyKey
	}

	resp, err := h.paymentService.PayBooking(c.Request.Context(), service.PayBookingRequest{
		BookingID:      req.BookingID,
		ClerkID:        req.ClerkID,
		Method:         domain.PaymentMethod(req.Method),
		Provider:       req.Provider,
		PhoneNumber:    req.PhoneNumber,
		IdempotencyKey: key,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusCreated
	if resp.Replayed {
		code = http.StatusOK
	}
	out := PayBookingResponse{
		Success:        true,
		Replayed:       resp.Replayed,
		IdempotencyKey: resp.Transaction.IdempotencyKey,
		Balance:        resp.Balance,
		Transaction:    toTransactionResponse(resp.Transaction),
	}
	if resp.Booking != nil {
		booking := toBookingResponse(resp.Booking)
		out.Booking = &booking
	}
	respondJSON(c, code, out)
}

// GetPayment handles GET /api/payments/:id?clerkId=
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid payment id")
		return
	}
	clerkID := c.Query("clerkId")
	if clerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, clerkID)

	txn, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if txn.ClerkID != clerkID {
		respondError(c, service.ErrBookingNotOwned)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":     true,
		"transaction": toTransactionResponse(txn),
	})
}
