package handler

import (
	"time"

	"courier/internal/domain"
)

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID               string    `json:"id"`
	ClerkID          string    `json:"clerk_id"`
	SenderName       string    `json:"sender_name"`
	SenderMobile     string    `json:"sender_mobile"`
	SenderLocation   string    `json:"sender_location"`
	SenderStreet     string    `json:"sender_street"`
	SenderEstate     string    `json:"sender_estate"`
	ReceiverName     string    `json:"receiver_name"`
	ReceiverMobile   string    `json:"receiver_mobile"`
	ReceiverLocation string    `json:"receiver_location"`
	ReceiverStreet   string    `json:"receiver_street"`
	ReceiverEstate   string    `json:"receiver_estate"`
	PackageType      string    `json:"package_type"`
	IsFragile        bool      `json:"is_fragile"`
	IsTracking       bool      `json:"is_tracking"`
	Description      string    `json:"description"`
	Weight           float64   `json:"weight"`
	ImageURL         string    `json:"image_url,omitempty"`
	DeliveryMean     string    `json:"delivery_mean"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID,
		ClerkID:          b.ClerkID,
		SenderName:       b.Sender.Name,
		SenderMobile:     b.Sender.Mobile,
		SenderLocation:   b.Sender.Location,
		SenderStreet:     b.Sender.Street,
		SenderEstate:     b.Sender.Estate,
		ReceiverName:     b.Receiver.Name,
		ReceiverMobile:   b.Receiver.Mobile,
		ReceiverLocation: b.Receiver.Location,
		ReceiverStreet:   b.Receiver.Street,
		ReceiverEstate:   b.Receiver.Estate,
		PackageType:      string(b.PackageType),
		IsFragile:        b.IsFragile,
		IsTracking:       b.HasTracking,
		Description:      b.Description,
		Weight:           b.Weight,
		ImageURL:         b.ImageURL,
		DeliveryMean:     b.DeliveryMeans,
		Amount:           b.Amount,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
	}
}

func toBookingResponses(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

// TransactionResponse is the HTTP representation of a transaction.
type TransactionResponse struct {
	TransactionID   int64     `json:"transaction_id"`
	ClerkID         string    `json:"clerk_id"`
	BookingID       string    `json:"booking_id,omitempty"`
	Amount          float64   `json:"amount"`
	Provider        string    `json:"provider"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.ID,
		ClerkID:         t.ClerkID,
		BookingID:       t.BookingID,
		Amount:          t.Amount,
		Provider:        string(t.Provider),
		TransactionType: string(t.Type),
		Description:     t.Description,
		PhoneNumber:     t.PhoneNumber,
		CreatedAt:       t.CreatedAt,
	}
}

func toTransactionResponses(txns []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

// UserResponse is the HTTP representation of a customer account.
type UserResponse struct {
	ClerkID   string    `json:"clerk_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ClerkID:   u.ClerkID,
		Email:     u.Email,
		Name:      u.Name,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileResponse is the HTTP representation of a customer profile.
type ProfileResponse struct {
	ClerkID   string    `json:"clerk_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	NextOfKin string    `json:"next_of_kin"`
	Gender    string    `json:"gender"`
	NIN       string    `json:"nin"`
	ImageName string    `json:"image_name,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfileResponse(p *domain.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		ClerkID:   p.ClerkID,
		Name:      p.Name,
		Email:     p.Email,
		Mobile:    p.Mobile,
		NextOfKin: p.NextOfKin,
		Gender:    p.Gender,
		NIN:       p.NIN,
		ImageName: p.ImageName,
		UpdatedAt: p.UpdatedAt,
	}
}
