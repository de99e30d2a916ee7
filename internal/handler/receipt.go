package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
)

// ReceiptService is the receipt behaviour the HTTP layer needs.
type ReceiptService interface {
	GenerateReceipt(ctx context.Context, bookingID, clerkID string) (*domain.Receipt, error)
	RenderPDF(receipt *domain.Receipt) ([]byte, error)
}

// ReceiptHandler serves booking receipts.
type ReceiptHandler struct {
	receiptService ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GetReceipt handles GET /api/booking/:id/receipt?clerkId=
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	clerkID := c.Query("clerkId")
	if clerkID == "" && c.GetString(middleware.AdminIDKey) == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	if clerkID != "" {
		c.Set(middleware.ClerkIDKey, clerkID)
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), c.Param("id"), clerkID)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.receiptService.RenderPDF(receipt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt-%s.pdf"`, receipt.Booking.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
