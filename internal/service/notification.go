package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courier/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated       NotificationType = "booking.created"
	NotificationBookingStatusChanged NotificationType = "booking.status_changed"
	NotificationPaymentCompleted     NotificationType = "payment.completed"
	NotificationWalletCredited       NotificationType = "wallet.credited"
	NotificationTrackingCompleted    NotificationType = "tracking.completed"
)

// Notification is the event envelope published for downstream consumers
// (push delivery, SMS, analytics).
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipientId"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// EventPublisher delivers serialized events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// NotificationService turns domain changes into published events.
// With a nil publisher events are only logged.
type NotificationService struct {
	publisher EventPublisher
	logger    *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher EventPublisher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{publisher: publisher, logger: logger}
}

// NotifyBookingCreated tells the customer their booking was received.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCreated,
		RecipientID: booking.ClerkID,
		Title:       "Booking Received",
		Message:     fmt.Sprintf("Your %s package to %s is booked. Amount due: %.0f", booking.PackageType, booking.Receiver.Name, booking.Amount),
		Data: map[string]any{
			"bookingId":     booking.ID,
			"amount":        booking.Amount,
			"deliveryMeans": booking.DeliveryMeans,
		},
	})
}

// NotifyBookingStatusChanged tells the customer their booking moved to a new status.
func (s *NotificationService) NotifyBookingStatusChanged(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingStatusChanged,
		RecipientID: booking.ClerkID,
		Title:       "Booking Updated",
		Message:     fmt.Sprintf("Your booking is now %s", booking.Status),
		Data: map[string]any{
			"bookingId": booking.ID,
			"status":    booking.Status,
		},
	})
}

// NotifyPaymentCompleted tells the customer a booking was paid.
func (s *NotificationService) NotifyPaymentCompleted(ctx context.Context, txn *domain.Transaction) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentCompleted,
		RecipientID: txn.ClerkID,
		Title:       "Payment Successful",
		Message:     fmt.Sprintf("Payment of %.0f via %s was successful", txn.Amount, txn.Provider),
		Data: map[string]any{
			"transactionId": txn.ID,
			"bookingId":     txn.BookingID,
			"amount":        txn.Amount,
			"provider":      txn.Provider,
		},
	})
}

// NotifyWalletCredited tells the customer their wallet was topped up.
func (s *NotificationService) NotifyWalletCredited(ctx context.Context, txn *domain.Transaction, balance float64) error {
	return s.send(ctx, Notification{
		Type:        NotificationWalletCredited,
		RecipientID: txn.ClerkID,
		Title:       "Wallet Topped Up",
		Message:     fmt.Sprintf("%.0f was added to your wallet. New balance: %.0f", txn.Amount, balance),
		Data: map[string]any{
			"transactionId": txn.ID,
			"amount":        txn.Amount,
			"balance":       balance,
		},
	})
}

// NotifyTrackingCompleted tells the customer their shipment arrived.
func (s *NotificationService) NotifyTrackingCompleted(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationTrackingCompleted,
		RecipientID: booking.ClerkID,
		Title:       "Package Arrived",
		Message:     fmt.Sprintf("Your package has reached %s", booking.Receiver.Location),
		Data: map[string]any{
			"bookingId": booking.ID,
		},
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()

	s.logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("recipient", n.RecipientID),
		zap.String("title", n.Title),
	)

	if s.publisher == nil {
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, string(n.Type), body); err != nil {
		s.logger.Warn("failed to publish notification", zap.String("type", string(n.Type)), zap.Error(err))
		return err
	}
	return nil
}
