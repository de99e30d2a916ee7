// Package draft holds a booking that is still being filled in, section by
// section, before it is submitted.
package draft

import (
	"sync"

	"courier/internal/domain"
)

// Sender is the sender section of a draft.
type Sender struct {
	Name         string `json:"senderName"`
	MobileNumber string `json:"senderMobileNumber"`
	Location     string `json:"senderLocation"`
	Street       string `json:"senderStreet"`
	Estate       string `json:"senderEstate"`
}

// Receiver is the receiver section of a draft.
type Receiver struct {
	Name         string `json:"receiverName"`
	MobileNumber string `json:"receiverMobileNumber"`
	Location     string `json:"receiverLocation"`
	Street       string `json:"receiverStreet"`
	Estate       string `json:"receiverEstate"`
}

// Package is the package section of a draft. Weight stays a string until
// the booking is submitted.
type Package struct {
	Type          domain.PackageType `json:"type"`
	IsFragile     bool               `json:"isFragile"`
	HasTracking   bool               `json:"hasTracking"`
	Description   string             `json:"description"`
	Image         string             `json:"image,omitempty"`
	Weight        string             `json:"weight"`
	DeliveryMeans string             `json:"deliveryMeans"`
}

// FormData is the whole draft.
type FormData struct {
	Sender   Sender   `json:"sender"`
	Receiver Receiver `json:"receiver"`
	Package  Package  `json:"packaged"`
}

// SenderPatch lists sender fields to overwrite. Nil fields are left unchanged.
type SenderPatch struct {
	Name         *string
	MobileNumber *string
	Location     *string
	Street       *string
	Estate       *string
}

// ReceiverPatch lists receiver fields to overwrite. Nil fields are left unchanged.
type ReceiverPatch struct {
	Name         *string
	MobileNumber *string
	Location     *string
	Street       *string
	Estate       *string
}

// PackagePatch lists package fields to overwrite. Nil fields are left unchanged.
type PackagePatch struct {
	Type          *domain.PackageType
	IsFragile     *bool
	HasTracking   *bool
	Description   *string
	Image         *string
	Weight        *string
	DeliveryMeans *string
}

// Store is an in-memory draft shared by the booking steps.
type Store struct {
	mu   sync.RWMutex
	data FormData
}

// NewStore returns an empty draft.
func NewStore() *Store {
	return &Store{}
}

// UpdateSender merges p into the sender section.
func (s *Store) UpdateSender(p SenderPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &s.data.Sender
	set(&d.Name, p.Name)
	set(&d.MobileNumber, p.MobileNumber)
	set(&d.Location, p.Location)
	set(&d.Street, p.Street)
	set(&d.Estate, p.Estate)
}

// UpdateReceiver merges p into the receiver section.
func (s *Store) UpdateReceiver(p ReceiverPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &s.data.Receiver
	set(&d.Name, p.Name)
	set(&d.MobileNumber, p.MobileNumber)
	set(&d.Location, p.Location)
	set(&d.Street, p.Street)
	set(&d.Estate, p.Estate)
}

// UpdatePackage merges p into the package section.
func (s *Store) UpdatePackage(p PackagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &s.data.Package
	set(&d.Type, p.Type)
	set(&d.IsFragile, p.IsFragile)
	set(&d.HasTracking, p.HasTracking)
	set(&d.Description, p.Description)
	set(&d.Image, p.Image)
	set(&d.Weight, p.Weight)
	set(&d.DeliveryMeans, p.DeliveryMeans)
}

// FormData returns a copy of the current draft.
func (s *Store) FormData() FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Reset empties every section.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = FormData{}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
