package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/auth"
	"courier/internal/repository"
	"courier/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondBadRequest sends a 400 with a fixed message.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTrackingNotStarted):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidClerkID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidBooking),
		errors.Is(err, service.ErrInvalidPackageType),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrInvalidDeliveryMeans),
		errors.Is(err, service.ErrInvalidMobileNumber),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, service.ErrInvalidBookingStatus),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransactionType),
		errors.Is(err, service.ErrInvalidProvider),
		errors.Is(err, service.ErrInvalidPhoneNumber),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrTrackingNotEnabled):
		return http.StatusBadRequest

	// Authentication
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized

	// Wallet cannot cover the charge
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrBookingNotOwned):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrBookingAlreadyPaid),
		errors.Is(err, service.ErrBookingNotPayable),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, service.ErrIdempotencyKeyReused),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Upstream failures
	case errors.Is(err, service.ErrPaymentDeclined),
		errors.Is(err, service.ErrRouteUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
