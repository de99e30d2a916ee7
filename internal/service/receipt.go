package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"courier/internal/domain"
	"courier/internal/pricing"
	"courier/internal/repository"
)

// ReceiptService handles receipt generation.
type ReceiptService struct {
	bookingRepo     repository.BookingRepository
	transactionRepo repository.TransactionRepository
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(bookingRepo repository.BookingRepository, transactionRepo repository.TransactionRepository) *ReceiptService {
	return &ReceiptService{
		bookingRepo:     bookingRepo,
		transactionRepo: transactionRepo,
	}
}

// GenerateReceipt assembles the receipt for a booking. An empty clerkID
// skips the ownership check. Unpaid bookings get a receipt without a
// transaction.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, bookingID, clerkID string) (*domain.Receipt, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if clerkID != "" && booking.ClerkID != clerkID {
		return nil, ErrBookingNotOwned
	}

	txn, err := s.transactionRepo.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return &domain.Receipt{
		Booking:     booking,
		Transaction: txn,
		IssuedAt:    time.Now(),
	}, nil
}

// RenderPDF lays the receipt out on a single A4 page.
func (s *ReceiptService) RenderPDF(receipt *domain.Receipt) ([]byte, error) {
	b := receipt.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt "+b.ID, false)
	pdf.SetAuthor("Courier", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Booking: "+b.ID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued: "+receipt.IssuedAt.Format("Jan 02, 2006 3:04 PM"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+string(b.Status))
	pdf.Ln(10)

	section(pdf, "Sender")
	party(pdf, b.Sender)
	section(pdf, "Receiver")
	party(pdf, b.Receiver)

	section(pdf, "Package")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s, %.2f kg via %s", b.PackageType, b.Weight, b.DeliveryMeans))
	pdf.Ln(6)
	if b.Description != "" {
		pdf.MultiCell(0, 6, b.Description, "", "", false)
	}
	pdf.Ln(4)

	section(pdf, "Charges")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range pricing.Breakdown(b.IsFragile, b.HasTracking) {
		pdf.CellFormat(120, 6, line.Label, "", 0, "", false, 0, "")
		pdf.CellFormat(0, 6, formatMoney(line.Amount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Total", "T", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, formatMoney(b.Amount), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Payment")
	pdf.SetFont("Helvetica", "", 10)
	if t := receipt.Transaction; t != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Transaction #%d via %s on %s", t.ID, t.Provider, t.CreatedAt.Format("Jan 02, 2006")))
		if t.PhoneNumber != "" {
			pdf.Ln(6)
			pdf.Cell(0, 6, "Phone: "+t.PhoneNumber)
		}
	} else {
		pdf.Cell(0, 6, "Awaiting payment")
	}
	pdf.Ln(6)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func party(pdf *gofpdf.Fpdf, p domain.Party) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, p.Name+" ("+p.Mobile+")")
	pdf.Ln(6)
	pdf.Cell(0, 6, p.Street+", "+p.Estate+", "+p.Location)
	pdf.Ln(8)
}

func formatMoney(f float64) string {
	return fmt.Sprintf("%s %.0f", pricing.Currency, f)
}
