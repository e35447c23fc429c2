package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/internal/services"
	"github.com/moodler-app/backend/pkg/utils"
)

type AuthHandler struct {
	profiles services.ProfileService
	sessions *services.SessionService
}

func NewAuthHandler(profiles services.ProfileService, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{profiles: profiles, sessions: sessions}
}

type SignupRequest struct {
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Bio       *string `json:"bio,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"` // YYYY-MM-DD
	ImageURL  *string `json:"image_url,omitempty"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// AuthResponse carries the profile and session token back to the client.
type AuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    *models.Profile `json:"user,omitempty"`
	Token   string          `json:"token,omitempty"`
}

// Signup handles user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, username, and password are required")
		return
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}

	profile, err := h.profiles.SignUp(r.Context(), models.SignUpParams{
		Name:      req.Name,
		Username:  req.Username,
		Password:  req.Password,
		Bio:       req.Bio,
		Goal:      req.Goal,
		BirthDate: birthDate,
		ImageURL:  req.ImageURL,
	})
	if errors.Is(err, services.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "This username is already taken. Please choose another one.")
		return
	} else if err != nil {
		log.Printf("[Signup] failed to create profile: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.sessions.Create(r.Context(), profile.ID)
	if err != nil {
		log.Printf("[Signup] failed to create session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    profile,
		Token:   token,
	})
}

// Signin handles user login. The failure message never distinguishes an
// unknown username from a wrong password.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	profile, err := h.profiles.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	} else if err != nil {
		log.Printf("[Signin] login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.sessions.Create(r.Context(), profile.ID)
	if err != nil {
		log.Printf("[Signin] failed to create session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    profile,
		Token:   token,
	})
}

// Signout invalidates the current session. The profile record stays.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if err := h.sessions.Invalidate(r.Context(), token); err != nil {
		log.Printf("[Signout] failed to invalidate session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Signed out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.profiles.GetByID(r.Context(), userID)
	if errors.Is(err, services.ErrProfileNotFound) {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	} else if err != nil {
		log.Printf("[Me] failed to load profile: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: profile})
}

// CheckUsername reports whether a username is still available.
func (h *AuthHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success":   false,
			"available": false,
			"message":   err.Error(),
		})
		return
	}

	exists, err := h.profiles.UsernameExists(r.Context(), req.Username)
	if err != nil {
		log.Printf("[CheckUsername] lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to check username")
		return
	}

	message := "Username is available"
	if exists {
		message = "Username is already taken"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"available": !exists,
		"username":  req.Username,
		"message":   message,
	})
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
