package service

import (
	"context"
	"errors"
	"net/mail"
	"path/filepath"
	"strings"

	"courier/internal/domain"
	"courier/internal/repository"
)

// ProfileService handles customer profile operations.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// SaveProfileRequest contains the parameters for saving a profile.
type SaveProfileRequest struct {
	ClerkID   string
	Name      string
	Email     string
	Mobile    string
	NextOfKin string
	Gender    string
	NIN       string
	// ImageName is the uploaded file's name. Empty keeps the current image.
	ImageName string
}

// SaveProfile creates or replaces a customer's profile.
func (s *ProfileService) SaveProfile(ctx context.Context, req SaveProfileRequest) (*domain.Profile, error) {
	if strings.TrimSpace(req.ClerkID) == "" {
		return nil, ErrInvalidClerkID
	}

	required := []struct{ field, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"mobile", req.Mobile},
		{"kin", req.NextOfKin},
		{"gender", req.Gender},
		{"nin", req.NIN},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, fieldError(ErrInvalidProfile, r.field+" is required")
		}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fieldError(ErrInvalidProfile, "email is not valid")
	}
	if !isMobileNumber(strings.TrimSpace(req.Mobile)) {
		return nil, fieldError(ErrInvalidMobileNumber, "mobile")
	}

	profile := &domain.Profile{
		ClerkID:   strings.TrimSpace(req.ClerkID),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Mobile:    strings.TrimSpace(req.Mobile),
		NextOfKin: strings.TrimSpace(req.NextOfKin),
		Gender:    strings.TrimSpace(req.Gender),
		NIN:       strings.TrimSpace(req.NIN),
	}
	if req.ImageName != "" {
		profile.ImageName = filepath.Base(req.ImageName)
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile retrieves a customer's profile. A customer without one gets nil.
func (s *ProfileService) GetProfile(ctx context.Context, clerkID string) (*domain.Profile, error) {
	if clerkID == "" {
		return nil, ErrInvalidClerkID
	}
	profile, err := s.profileRepo.GetByClerkID(ctx, clerkID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return profile, err
}
