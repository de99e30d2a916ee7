package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/domain"
	"courier/internal/middleware"
	"courier/internal/service"
)

// ProfileService is the profile behaviour the HTTP layer needs.
type ProfileService interface {
	SaveProfile(ctx context.Context, req service.SaveProfileRequest) (*domain.Profile, error)
	GetProfile(ctx context.Context, clerkID string) (*domain.Profile, error)
}

// ProfileHandler handles HTTP requests for customer profiles.
type ProfileHandler struct {
	profileService ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// SaveProfile handles POST /api/profile (multipart/form-data)
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	req := service.SaveProfileRequest{
		ClerkID:   c.PostForm("clerkId"),
		Name:      c.PostForm("name"),
		Email:     c.PostForm("email"),
		Mobile:    c.PostForm("mobile"),
		NextOfKin: c.PostForm("kin"),
		Gender:    c.PostForm("gender"),
		NIN:       c.PostForm("nin"),
	}
	if req.ClerkID == "" {
		respondBadRequest(c, "missing clerkId")
		return
	}
	c.Set(middleware.ClerkIDKey, req.ClerkID)

	// Only the file name is kept; the bytes are not stored.
	file, err := c.FormFile("profileImage")
	switch {
	case err == nil:
		req.ImageName = file.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		respondBadRequest(c, "invalid profile image")
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"profile": toProfileResponse(profile),
	})
}

// GetProfile handles GET /api/profile?clerkId=
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	clerkID := c.Query("clerkId")
	if clerkID == "" {
		respondBadRequest(c, "missing clerkId parameter")
		return
	}
	c.Set(middleware.ClerkIDKey, clerkID)

	profile, err := h.profileService.GetProfile(c.Request.Context(), clerkID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"profile": toProfileResponse(profile),
	})
}
