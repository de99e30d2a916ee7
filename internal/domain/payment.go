package domain

import (
	"strings"
	"time"
)

// TransactionType is the direction of a funds movement.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit" // wallet top-up
	TransactionDebit  TransactionType = "debit"  // booking paid from the wallet
	TransactionProfit TransactionType = "profit" // booking paid directly by mobile money
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionCredit, TransactionDebit, TransactionProfit:
		return true
	}
	return false
}

// Provider is the funding source of a transaction.
type Provider string

const (
	ProviderWallet Provider = "wallet"
	ProviderMTN    Provider = "mtn"
	ProviderAirtel Provider = "airtel"
)

// MobileNumberLength is the number of digits in a local mobile number.
const MobileNumberLength = 10

var providerPrefixes = map[Provider][]string{
	ProviderMTN:    {"077", "078", "076"},
	ProviderAirtel: {"070", "075", "074"},
}

// ParseProvider normalizes a provider name.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderWallet, ProviderMTN, ProviderAirtel:
		return p, true
	}
	return "", false
}

// IsMobileMoney reports whether the provider is a mobile-money network.
func (p Provider) IsMobileMoney() bool {
	_, ok := providerPrefixes[p]
	return ok
}

// Prefixes returns the leading digit sequences a provider's numbers start with.
func (p Provider) Prefixes() []string {
	return providerPrefixes[p]
}

// AcceptsNumber reports whether phone is a valid number on this network:
// exactly ten digits starting with one of the provider's prefixes.
func (p Provider) AcceptsNumber(phone string) bool {
	if len(phone) != MobileNumberLength {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	for _, prefix := range providerPrefixes[p] {
		if strings.HasPrefix(phone, prefix) {
			return true
		}
	}
	return false
}

// Transaction represents a recorded funds movement.
type Transaction struct {
	ID             int64
	ClerkID        string
	BookingID      string
	Amount         float64
	Provider       Provider
	Type           TransactionType
	Description    string
	PhoneNumber    string
	IdempotencyKey string
	CreatedAt      time.Time
}

// PaymentMethod is how a booking is paid for.
type PaymentMethod string

const (
	PaymentMethodWallet      PaymentMethod = "wallet"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// Receipt summarizes a paid booking.
type Receipt struct {
	Booking     *Booking
	Transaction *Transaction
	IssuedAt    time.Time
}
