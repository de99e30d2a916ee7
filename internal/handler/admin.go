package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/service"
)

// AdminService is the dashboard behaviour the HTTP layer needs.
type AdminService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResponse, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	ListBookings(ctx context.Context, q service.ListQuery) (*service.BookingPage, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	ListPayments(ctx context.Context, q service.ListQuery) (*service.PaymentPage, error)
	GetPayment(ctx context.Context, id int64) (*domain.Transaction, error)
	ListUsers(ctx context.Context, q service.ListQuery) (*service.UserPage, error)
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, clerkID string) (*domain.User, error)
}

// AdminHandler handles HTTP requests from the operator dashboard.
type AdminHandler struct {
	adminService AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// LoginRequest is the HTTP request body for operator login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondBadRequest(c, "email and password are required")
		return
	}

	resp, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":   true,
		"token":     resp.Token,
		"expiresAt": resp.ExpiresAt,
		"admin": gin.H{
			"id":    resp.Admin.ID,
			"email": resp.Admin.Email,
			"name":  resp.Admin.Name,
		},
	})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"totalUsers":      stats.TotalUsers,
			"totalBookings":   stats.TotalBookings,
			"totalRevenue":    stats.TotalRevenue,
			"pendingBookings": stats.PendingBookings,
		},
	})
}

// listQuery reads the shared paging and filter parameters.
func listQuery(c *gin.Context) (service.ListQuery, bool) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			return service.ListQuery{}, false
		}
		page = p
	}
	return service.ListQuery{
		Page:     page,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
		Type:     c.Query("type"),
		Date:     c.Query("date"),
	}, true
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		respondBadRequest(c, "page must be a positive integer")
		return
	}

	page, err := h.adminService.ListBookings(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"bookings": toBookingResponses(page.Bookings),
			"total":    page.Total,
			"page":     q.Page,
			"pageSize": service.AdminPageSize,
		},
	})
}

// GetBooking handles GET /api/admin/bookings/:id
func (h *AdminHandler) GetBooking(c *gin.Context) {
	booking, err := h.adminService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data":    toBookingResponse(booking),
	})
}

// BookingStatusRequest is the HTTP request body for an operator status change.
type BookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/:id/status
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	booking, err := h.adminService.UpdateBookingStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data":    toBookingResponse(booking),
	})
}

// ListPayments handles GET /api/admin/payments
func (h *AdminHandler) ListPayments(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		respondBadRequest(c, "page must be a positive integer")
		return
	}

	page, err := h.adminService.ListPayments(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"payments": toTransactionResponses(page.Transactions),
			"total":    page.Summary.Count,
			"volume":   page.Summary.Volume,
			"page":     q.Page,
			"pageSize": service.AdminPageSize,
		},
	})
}

// GetPayment handles GET /api/admin/payments/:id
func (h *AdminHandler) GetPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid payment id")
		return
	}

	txn, err := h.adminService.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data":    toTransactionResponse(txn),
	})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		respondBadRequest(c, "page must be a positive integer")
		return
	}

	page, err := h.adminService.ListUsers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]UserResponse, 0, len(page.Users))
	for _, u := range page.Users {
		users = append(users, toUserResponse(u))
	}
	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":    users,
			"total":    page.Total,
			"page":     q.Page,
			"pageSize": service.AdminPageSize,
		},
	})
}

// CreateUserRequest is the HTTP request body for registering a customer.
type CreateUserRequest struct {
	ClerkID string `json:"clerkId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), service.CreateUserRequest{
		ClerkID: req.ClerkID,
		Email:   req.Email,
		Name:    req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"success": true,
		"data":    toUserResponse(user),
	})
}

// GetUser handles GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.adminService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"data":    toUserResponse(user),
	})
}
