package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/moodler-app/backend/internal/models"
)

var (
	// ErrUsernameTaken is returned by SignUp and Update when the requested
	// username collides case-insensitively with an existing profile.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// so login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrProfileNotFound is returned for lookups of a missing profile id.
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileService manages user accounts and credentials. Implementations must
// enforce case-insensitive username uniqueness and must never return password
// hashes through Login failures.
type ProfileService interface {
	SignUp(ctx context.Context, params models.SignUpParams) (*models.Profile, error)
	Login(ctx context.Context, username, password string) (*models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	// Update rewrites the profile's full field set. The username uniqueness
	// check runs only when the username actually changes.
	Update(ctx context.Context, id uuid.UUID, params models.UpdateProfileParams) (*models.Profile, error)
	// UsernameExists reports whether a profile already holds the username,
	// compared case-insensitively.
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// normalizeOptional maps empty or whitespace-only strings to nil so "unset"
// is stored as NULL instead of "". Done once here rather than per call site.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
