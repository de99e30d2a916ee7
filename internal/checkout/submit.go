// Package checkout turns a finished draft into a booking and pays for it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courier/internal/client"
	"courier/internal/draft"
	"courier/internal/pricing"
)

// ErrNoBookingID is returned when the server accepts a booking without naming it.
var ErrNoBookingID = errors.New("checkout: server returned no booking id")

// BookingAPI creates bookings on the server.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req client.BookingRequest) (*client.BookingResult, error)
}

// Submission is a booking the server has accepted.
type Submission struct {
	BookingID string
	Amount    float64
}

// Submitter sends the draft held by a store.
type Submitter struct {
	store *draft.Store
	api   BookingAPI
}

// NewSubmitter creates a submitter for the given draft.
func NewSubmitter(store *draft.Store, api BookingAPI) *Submitter {
	return &Submitter{store: store, api: api}
}

// Submit sends one create request for the current draft. The draft is reset
// only after the server confirms the booking; on any error it is left intact.
func (s *Submitter) Submit(ctx context.Context, clerkID string) (*Submission, error) {
	req := BookingRequest(s.store.FormData(), clerkID)

	res, err := s.api.CreateBooking(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit booking: %w", err)
	}
	if !res.Success || res.BookingID == "" {
		return nil, ErrNoBookingID
	}

	s.store.Reset()
	return &Submission{BookingID: res.BookingID, Amount: req.Amount}, nil
}

// BookingRequest flattens a draft into the create payload.
func BookingRequest(d draft.FormData, clerkID string) client.BookingRequest {
	return client.BookingRequest{
		ClerkID:          clerkID,
		SenderName:       strings.TrimSpace(d.Sender.Name),
		SenderMobile:     d.Sender.MobileNumber,
		SenderLocation:   d.Sender.Location,
		SenderStreet:     d.Sender.Street,
		SenderEstate:     d.Sender.Estate,
		ReceiverName:     strings.TrimSpace(d.Receiver.Name),
		ReceiverMobile:   d.Receiver.MobileNumber,
		ReceiverLocation: d.Receiver.Location,
		ReceiverStreet:   d.Receiver.Street,
		ReceiverEstate:   d.Receiver.Estate,
		SelectedType:     string(d.Package.Type),
		IsFragile:        d.Package.IsFragile,
		IsTracking:       d.Package.HasTracking,
		Description:      d.Package.Description,
		Weight:           strings.TrimSpace(d.Package.Weight),
		ImageURL:         d.Package.Image,
		DeliveryMean:     d.Package.DeliveryMeans,
		Amount:           pricing.Amount(d.Package.IsFragile, d.Package.HasTracking),
	}
}
