package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/internal/services"
	"github.com/moodler-app/backend/pkg/utils"
)

type ProfileHandler struct {
	profiles services.ProfileService
}

func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type UpdateProfileRequest struct {
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}

// Update replaces the caller's profile fields. An absent or empty image_url
// keeps the current picture.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "Name and username are required")
		return
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, models.UpdateProfileParams{
		Name:      req.Name,
		Username:  req.Username,
		Bio:       req.Bio,
		Goal:      req.Goal,
		BirthDate: birthDate,
		ImageURL:  req.ImageURL,
	})
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "This username is already taken. Please choose another one.")
		return
	case errors.Is(err, services.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	case err != nil:
		log.Printf("[UpdateProfile] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Profile updated",
		Data:    profile,
	})
}
