package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"courier/internal/client"
	"courier/internal/domain"
	"courier/internal/form"
)

// State is a step of a payment attempt.
type State int

const (
	SelectingMethod State = iota
	EnteringProviderDetails
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case SelectingMethod:
		return "selecting_method"
	case EnteringProviderDetails:
		return "entering_provider_details"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state.
	ErrInvalidTransition = errors.New("checkout: action not allowed in current state")

	// ErrInsufficientBalance matches a wallet payment the balance cannot cover.
	ErrInsufficientBalance = client.ErrInsufficientBalance
)

// PaymentAPI pays bookings on the server.
type PaymentAPI interface {
	PayBooking(ctx context.Context, req client.PaymentRequest) (*client.PaymentResult, error)
}

// MobileMoneyDetails is what the user enters for a mobile-money payment.
type MobileMoneyDetails struct {
	Provider    domain.Provider
	PhoneNumber string
	Amount      float64
}

// PaymentFlow drives one booking payment. Retries reuse the idempotency key
// generated when the flow is created.
type PaymentFlow struct {
	api       PaymentAPI
	bookingID string
	clerkID   string
	amount    float64
	key       string

	mu     sync.Mutex
	state  State
	err    error
	result *client.PaymentResult
}

// NewPaymentFlow starts a payment for a booking in SelectingMethod.
func NewPaymentFlow(api PaymentAPI, bookingID, clerkID string, amount float64) *PaymentFlow {
	return &PaymentFlow{
		api:       api,
		bookingID: bookingID,
		clerkID:   clerkID,
		amount:    amount,
		key:       uuid.NewString(),
		state:     SelectingMethod,
	}
}

// State returns the current state.
func (f *PaymentFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the reason of the last failure, or nil.
func (f *PaymentFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Result returns the server's answer once the flow has succeeded.
func (f *PaymentFlow) Result() *client.PaymentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// IdempotencyKey is the key sent with every attempt of this flow.
func (f *PaymentFlow) IdempotencyKey() string { return f.key }

// Amount is the booking total being paid.
func (f *PaymentFlow) Amount() float64 { return f.amount }

// PayWithWallet pays from the wallet balance.
func (f *PaymentFlow) PayWithWallet(ctx context.Context) error {
	if err := f.begin(SelectingMethod, Failed); err != nil {
		return err
	}
	return f.submit(ctx, client.PaymentRequest{
		Method:   string(domain.PaymentMethodWallet),
		Provider: string(domain.ProviderWallet),
	})
}

// ChooseMobileMoney opens provider detail entry.
func (f *PaymentFlow) ChooseMobileMoney() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SelectingMethod && f.state != Failed {
		return ErrInvalidTransition
	}
	f.state = EnteringProviderDetails
	return nil
}

// Back returns from provider detail entry to method selection.
func (f *PaymentFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != EnteringProviderDetails {
		return ErrInvalidTransition
	}
	f.state = SelectingMethod
	return nil
}

// SubmitMobileMoney validates the details and pays through the provider.
// Invalid details keep the flow in EnteringProviderDetails and return
// form.FieldErrors.
func (f *PaymentFlow) SubmitMobileMoney(ctx context.Context, d MobileMoneyDetails) error {
	f.mu.Lock()
	if f.state != EnteringProviderDetails {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	phone := form.SanitizeMobile(d.PhoneNumber)
	if errs := f.validate(d.Provider, phone, d.Amount); len(errs) > 0 {
		f.mu.Unlock()
		return errs
	}
	f.state = Submitting
	f.err = nil
	f.mu.Unlock()

	return f.submit(ctx, client.PaymentRequest{
		Method:      string(domain.PaymentMethodMobileMoney),
		Provider:    string(d.Provider),
		PhoneNumber: phone,
	})
}

func (f *PaymentFlow) validate(p domain.Provider, phone string, amount float64) form.FieldErrors {
	errs := form.FieldErrors{}
	switch {
	case !p.IsMobileMoney():
		errs["provider"] = "Select MTN or Airtel"
	case !p.AcceptsNumber(phone):
		errs["phoneNumber"] = fmt.Sprintf("Enter a valid %s number starting with %s",
			providerLabel(p), strings.Join(p.Prefixes(), ", "))
	}
	switch {
	case amount <= 0:
		errs["amount"] = "Amount must be greater than zero"
	case amount != f.amount:
		errs["amount"] = fmt.Sprintf("Amount must be %.0f", f.amount)
	}
	return errs
}

func providerLabel(p domain.Provider) string {
	if p == domain.ProviderMTN {
		return "MTN"
	}
	return "Airtel"
}

func (f *PaymentFlow) begin(from ...State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range from {
		if f.state == s {
			f.state = Submitting
			f.err = nil
			return nil
		}
	}
	return ErrInvalidTransition
}

func (f *PaymentFlow) submit(ctx context.Context, req client.PaymentRequest) error {
	req.BookingID = f.bookingID
	req.ClerkID = f.clerkID
	req.IdempotencyKey = f.key

	res, err := f.api.PayBooking(ctx, req)
	if err == nil && (res == nil || !res.Success) {
		err = errors.New("checkout: payment was not confirmed")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed
		f.err = fmt.Errorf("pay booking %s: %w", f.bookingID, err)
		return f.err
	}
	f.state = Succeeded
	f.result = res
	return nil
}
