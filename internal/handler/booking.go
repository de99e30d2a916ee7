package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/service"
)

// BookingService is the booking behaviour the HTTP layer needs.
type BookingService interface {
	CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*domain.Booking, error)
	ListBookings(ctx context.Context, clerkID string) ([]*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
}

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Weight accepts either a JSON number or a numeric string.
type Weight float64

// UnmarshalJSON implements json.Unmarshaler.
func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		*w = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return service.ErrInvalidWeight
	}
	*w = Weight(f)
	return nil
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	ClerkID          string  `json:"clerk_id"`
	SenderName       string  `json:"sender_name"`
	SenderMobile     string  `json:"sender_mobile"`
	SenderLocation   string  `json:"sender_location"`
	SenderStreet     string  `json:"sender_street"`
	SenderEstate     string  `json:"sender_estate"`
	ReceiverName     string  `json:"receiver_name"`
	ReceiverMobile   string  `json:"receiver_mobile"`
	ReceiverLocation string  `json:"receiver_location"`
	ReceiverStreet   string  `json:"receiver_street"`
	ReceiverEstate   string  `json:"receiver_estate"`
	SelectedType     string  `json:"selected_type"`
	IsFragile        bool    `json:"is_fragile"`
	IsTracking       bool    `json:"is_tracking"`
	Description      string  `json:"description"`
	Weight           Weight  `json:"weight"`
	ImageURL         string  `json:"image_url"`
	DeliveryMean     string  `json:"delivery_mean"`
	Amount           float64 `json:"amount"`
}

// CreateBookingResponse is the HTTP response for a created booking.
type CreateBookingResponse struct {
	Success   bool    `json:"success"`
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

// CreateBooking handles POST /api/booking
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, service.ErrInvalidWeight) {
			respondBadRequest(c, "weight must be a valid number")
			return
		}
		respondBadRequest(c, "invalid request body")
		return
	}
	c.Set(middleware.ClerkIDKey, req.ClerkID)

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		ClerkID: req.ClerkID,
		Sender: domain.Party{
			Name:     req.SenderName,
			Mobile:   req.SenderMobile,
			Location: req.SenderLocation,
			Street:   req.SenderStreet,
			Estate:   req.SenderEstate,
		},
		Receiver: domain.Party{
			Name:     req.ReceiverName,
			Mobile:   req.ReceiverMobile,
			Location: req.ReceiverLocation,
			Street:   req.ReceiverStreet,
			Estate:   req.ReceiverEstate,
		},
		PackageType:   domain.PackageType(req.SelectedType),
		IsFragile:     req.IsFragile,
		HasTracking:   req.IsTracking,
		Description:   req.Description,
		Weight:        float64(req.Weight),
		ImageURL:      imageURL(req.ImageURL),
		DeliveryMeans: req.DeliveryMean,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		Success:   true,
		BookingID: booking.ID,
		Amount:    booking.Amount,
	})
}

// imageURL keeps remote image references and drops device-local ones.
func imageURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return ""
}

// ListBookings handles GET /api/booking?clerkId=
func (h *BookingHandler) ListBookings(c *gin.Context) {
	clerkID := c.Query("clerkId")
	if clerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, clerkID)

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), clerkID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":  true,
		"bookings": toBookingResponses(bookings),
	})
}

// UpdateStatusRequest is the HTTP request body for a status change.
type UpdateStatusRequest struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// UpdateStatus handles PATCH /api/booking
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.BookingID == "" || req.Status == "" {
		respondBadRequest(c, "bookingId and status are required")
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), req.BookingID, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set(middleware.ClerkIDKey, booking.ClerkID)

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     booking.ID,
			"status": booking.Status,
		},
	})
}
