package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a Moodler user account. Optional fields are pointers: nil means
// the user never set them, which is distinct from an empty string.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Password  string     `json:"-"` // argon2id hash, never serialized
	Bio       *string    `json:"bio,omitempty"`
	Goal      *string    `json:"goal,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	JoinedAt  time.Time  `json:"joined_at"`
	ImageURL  *string    `json:"image_url,omitempty"`
}

// SignUpParams carries everything needed to create a profile. Optional string
// fields are normalized at the service boundary: empty or whitespace-only
// input becomes nil before storage.
type SignUpParams struct {
	Name      string
	Username  string
	Password  string
	Bio       *string
	Goal      *string
	BirthDate *time.Time
	ImageURL  *string
}

// UpdateProfileParams mirrors SignUpParams minus the password. A nil ImageURL
// leaves the stored image untouched (the client only sends it when changed).
type UpdateProfileParams struct {
	Name      string
	Username  string
	Bio       *string
	Goal      *string
	BirthDate *time.Time
	ImageURL  *string
}
