package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/service"
)

// TransactionService is the wallet behaviour the HTTP layer needs.
type TransactionService interface {
	Record(ctx context.Context, req service.RecordTransactionRequest) (*service.RecordTransactionResponse, error)
	ListRecent(ctx context.Context, clerkID string) ([]*domain.Transaction, error)
	Balance(ctx context.Context, clerkID string) (float64, error)
}

// TransactionHandler handles HTTP requests for wallet transactions.
type TransactionHandler struct {
	transactionService TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecordTransactionRequest is the HTTP request body for recording a transaction.
type RecordTransactionRequest struct {
	ClerkID         string  `json:"clerkId"`
	Amount          float64 `json:"amount"`
	Provider        string  `json:"provider"`
	TransactionType string  `json:"transactionType"`
	Description     string  `json:"description"`
	PhoneNumber     string  `json:"phoneNumber"`
}

// RecordTransaction handles POST /api/transactions
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.ClerkID == "" || req.TransactionType == "" {
		respondBadRequest(c, "clerkId, amount and transactionType are required")
		return
	}
	c.Set(middleware.ClerkIDKey, req.ClerkID)

	resp, err := h.transactionService.Record(c.Request.Context(), service.RecordTransactionRequest{
		ClerkID:     req.ClerkID,
		Amount:      req.Amount,
		Provider:    req.Provider,
		Type:        domain.TransactionType(req.TransactionType),
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"success": true,
		"message": "Transaction recorded successfully",
		"balance": resp.Balance,
		"data": gin.H{
			"transaction_id":   resp.Transaction.ID,
			"amount":           resp.Transaction.Amount,
			"transaction_type": resp.Transaction.Type,
		},
	})
}

// ListTransactions handles GET /api/transactions?clerkId=
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	clerkID := c.Query("clerkId")
	if clerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, clerkID)

	txns, err := h.transactionService.ListRecent(c.Request.Context(), clerkID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":      true,
		"transactions": toTransactionResponses(txns),
	})
}

// GetBalance handles GET /api/balance?clerkId=
func (h *TransactionHandler) GetBalance(c *gin.Context) {
	clerkID := c.Query("clerkId")
	if clerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, clerkID)

	balance, err := h.transactionService.Balance(c.Request.Context(), clerkID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"balance": balance,
	})
}
