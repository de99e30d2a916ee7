package form

import (
	"math"
	"strconv"
	"strings"

	"courier/internal/domain"
	"courier/internal/draft"
)

// PackageStep edits the package section.
type PackageStep struct {
	v       draft.Package
	catalog DeliveryMeansCatalog
}

// NewPackageStep creates a package step offering the given carriers.
// An empty catalog falls back to DefaultCatalog.
func NewPackageStep(catalog DeliveryMeansCatalog) *PackageStep {
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	return &PackageStep{catalog: catalog}
}

// Catalog returns the carriers offered by this step.
func (s *PackageStep) Catalog() DeliveryMeansCatalog {
	if len(s.catalog) == 0 {
		return DefaultCatalog
	}
	return s.catalog
}

// Load replaces the local state with the draft's package section.
func (s *PackageStep) Load(store *draft.Store) {
	s.v = store.FormData().Package
}

// Values returns the local state.
func (s *PackageStep) Values() draft.Package { return s.v }

func (s *PackageStep) SetType(t domain.PackageType) { s.v.Type = t }
func (s *PackageStep) SetFragile(v bool)            { s.v.IsFragile = v }
func (s *PackageStep) SetTracking(v bool)           { s.v.HasTracking = v }
func (s *PackageStep) SetDescription(v string)      { s.v.Description = v }
func (s *PackageStep) SetImage(v string)            { s.v.Image = v }
func (s *PackageStep) SetWeight(v string)           { s.v.Weight = v }
func (s *PackageStep) SetDeliveryMeans(v string)    { s.v.DeliveryMeans = v }

// CanProceed reports whether every required field has a value. The image
// and the two options are not required.
func (s *PackageStep) CanProceed() bool {
	return filled(string(s.v.Type), s.v.Weight, s.v.Description, s.v.DeliveryMeans)
}

// Validate returns the inline errors for the local state.
func (s *PackageStep) Validate() FieldErrors {
	errs := FieldErrors{}
	if !s.v.Type.Valid() {
		errs["type"] = "Select a package type"
	}
	switch w, err := strconv.ParseFloat(strings.TrimSpace(s.v.Weight), 64); {
	case err != nil || math.IsNaN(w) || math.IsInf(w, 0):
		errs["weight"] = "Weight must be a number"
	case w <= 0:
		errs["weight"] = "Weight must be greater than zero"
	case !domain.ValidWeight(w):
		errs["weight"] = "Weight is too large"
	}
	if strings.TrimSpace(s.v.Description) == "" {
		errs["description"] = "Description is required"
	}
	if !s.Catalog().Contains(s.v.DeliveryMeans) {
		errs["deliveryMeans"] = "Please select a delivery method"
	}
	return errs
}

// Proceed writes the local state into the draft.
func (s *PackageStep) Proceed(store *draft.Store) error {
	if !s.CanProceed() {
		return ErrStepIncomplete
	}
	if err := s.Validate().orNil(); err != nil {
		return err
	}
	store.UpdatePackage(draft.PackagePatch{
		Type:          draft.Ptr(s.v.Type),
		IsFragile:     draft.Ptr(s.v.IsFragile),
		HasTracking:   draft.Ptr(s.v.HasTracking),
		Description:   draft.Ptr(s.v.Description),
		Image:         draft.Ptr(s.v.Image),
		Weight:        draft.Ptr(s.v.Weight),
		DeliveryMeans: draft.Ptr(s.v.DeliveryMeans),
	})
	return nil
}
