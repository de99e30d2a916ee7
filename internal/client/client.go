// Package client calls the courier REST API on behalf of the booking app.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInsufficientBalance matches an APIError for a wallet that cannot cover a charge.
var ErrInsufficientBalance = errors.New("insufficient balance")

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Is lets errors.Is match ErrInsufficientBalance.
func (e *APIError) Is(target error) bool {
	return target == ErrInsufficientBalance && e.Status == http.StatusPaymentRequired
}

const idempotencyHeader = "Idempotency-Key"

// Client is a JSON client for the /api endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL, e.g. "https://courier.example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BookingRequest is the flattened booking payload.
type BookingRequest struct {
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
	Weight           string  `json:"weight"`
	ImageURL         string  `json:"image_url,omitempty"`
	DeliveryMean     string  `json:"delivery_mean"`
	Amount           float64 `json:"amount"`
}

// BookingResult is the server's answer to a booking request.
type BookingResult struct {
	Success   bool    `json:"success"`
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

// CreateBooking sends POST /api/booking.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	var out BookingResult
	if err := c.do(ctx, http.MethodPost, "/api/booking", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentRequest pays a booking in one call.
type PaymentRequest struct {
	BookingID      string `json:"bookingId"`
	ClerkID        string `json:"clerkId"`
	Method         string `json:"method"`
	Provider       string `json:"provider,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// Transaction is a ledger row as returned by the server.
type Transaction struct {
	TransactionID   int64     `json:"transaction_id"`
	BookingID       string    `json:"booking_id"`
	Amount          float64   `json:"amount"`
	Provider        string    `json:"provider"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	PhoneNumber     string    `json:"phone_number"`
	CreatedAt       time.Time `json:"created_at"`
}

// PaymentResult is the server's answer to a payment request.
type PaymentResult struct {
	Success        bool        `json:"success"`
	Replayed       bool        `json:"replayed"`
	IdempotencyKey string      `json:"idempotencyKey"`
	Balance        float64     `json:"balance"`
	Transaction    Transaction `json:"transaction"`
}

// PayBooking sends POST /api/payments with the request's idempotency key.
func (c *Client) PayBooking(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var header http.Header
	if req.IdempotencyKey != "" {
		header = http.Header{idempotencyHeader: []string{req.IdempotencyKey}}
	}
	var out PaymentResult
	if err := c.do(ctx, http.MethodPost, "/api/payments", header, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Balance sends GET /api/balance.
func (c *Client) Balance(ctx context.Context, clerkID string) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	path := "/api/balance?" + url.Values{"clerkId": {clerkID}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// Transactions sends GET /api/transactions.
func (c *Client) Transactions(ctx context.Context, clerkID string) ([]Transaction, error) {
	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	path := "/api/transactions?" + url.Values{"clerkId": {clerkID}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && env.Success != nil && !*env.Success) {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, decodeErr)
	}
	return json.Unmarshal(data, out)
}
