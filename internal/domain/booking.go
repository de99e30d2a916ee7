package domain

import (
	"math"
	"time"
)

// BookingStatus represents the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusComplete BookingStatus = "complete"
	BookingStatusDraft    BookingStatus = "draft"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusComplete, BookingStatusDraft:
		return true
	}
	return false
}

// PackageType classifies the goods being shipped.
type PackageType string

const (
	PackageElectronics PackageType = "Electronics"
	PackageDocument    PackageType = "Document"
	PackageClothes     PackageType = "Clothes"
	PackageFoods       PackageType = "Foods"
	PackageOther       PackageType = "Other"
)

// PackageTypes lists every package type in display order.
var PackageTypes = []PackageType{
	PackageElectronics,
	PackageDocument,
	PackageClothes,
	PackageFoods,
	PackageOther,
}

// Valid reports whether t is a known package type.
func (t PackageType) Valid() bool {
	for _, known := range PackageTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MaxWeight is the largest weight the bookings table can store.
const MaxWeight = 99999999.99

// ValidWeight reports whether w is a finite, positive weight within MaxWeight.
func ValidWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0 && w <= MaxWeight
}

// DeliveryMeans lists the carriers a package can be sent with.
var DeliveryMeans = []string{"Nile Star", "Carlifornia", "Nile Coach"}

// Party is the sender or receiver of a shipment.
type Party struct {
	Name     string
	Mobile   string
	Location string
	Street   string
	Estate   string
}

// Booking represents a delivery request.
type Booking struct {
	ID            string
	ClerkID       string
	Sender        Party
	Receiver      Party
	PackageType   PackageType
	IsFragile     bool
	HasTracking   bool
	Description   string
	Weight        float64
	ImageURL      string
	DeliveryMeans string
	Amount        float64
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
