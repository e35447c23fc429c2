package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/pkg/utils"
)

// PostgresProfileService stores profiles in the profiles table. Username
// uniqueness is backed by a unique index on LOWER(username), so the
// pre-insert check here is advisory and the index is the final word.
type PostgresProfileService struct {
	db *sql.DB
}

func NewPostgresProfileService(db *sql.DB) *PostgresProfileService {
	return &PostgresProfileService{db: db}
}

func (s *PostgresProfileService) SignUp(ctx context.Context, params models.SignUpParams) (*models.Profile, error) {
	username := utils.NormalizeUsername(params.Username)

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT username FROM profiles WHERE LOWER(username) = $1", username,
	).Scan(&existing)
	if err == nil {
		return nil, ErrUsernameTaken
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hashed, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	profile := &models.Profile{
		ID:        uuid.New(),
		Name:      trimmed(params.Name),
		Username:  trimmed(params.Username),
		Password:  hashed,
		Bio:       normalizeOptional(params.Bio),
		Goal:      normalizeOptional(params.Goal),
		BirthDate: params.BirthDate,
		ImageURL:  normalizeOptional(params.ImageURL),
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, name, username, password_hash, bio, goal, birth_date, joined_at, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)
		RETURNING joined_at
	`, profile.ID, profile.Name, profile.Username, profile.Password,
		profile.Bio, profile.Goal, profile.BirthDate, profile.ImageURL,
	).Scan(&profile.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	return profile, nil
}

func (s *PostgresProfileService) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	profile, err := s.getByUsername(ctx, username)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("looking up profile: %w", err)
	}

	valid, err := utils.VerifyPassword(password, profile.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	return profile, nil
}

func (s *PostgresProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.scanProfile(s.db.QueryRowContext(ctx, `
		SELECT id, name, username, password_hash, bio, goal, birth_date, joined_at, image_url
		FROM profiles WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("looking up profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresProfileService) Update(ctx context.Context, id uuid.UUID, params models.UpdateProfileParams) (*models.Profile, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newUsername := trimmed(params.Username)
	if utils.NormalizeUsername(newUsername) != utils.NormalizeUsername(current.Username) {
		var existing string
		err := s.db.QueryRowContext(ctx,
			"SELECT username FROM profiles WHERE LOWER(username) = $1", utils.NormalizeUsername(newUsername),
		).Scan(&existing)
		if err == nil {
			return nil, ErrUsernameTaken
		} else if err != sql.ErrNoRows {
			return nil, fmt.Errorf("checking username: %w", err)
		}
	}
	// A case-only change keeps the same normalized key and needs no
	// uniqueness check, but the new casing is still applied.
	current.Username = newUsername

	current.Name = trimmed(params.Name)
	current.Bio = normalizeOptional(params.Bio)
	current.Goal = normalizeOptional(params.Goal)
	current.BirthDate = params.BirthDate
	if img := normalizeOptional(params.ImageURL); img != nil {
		current.ImageURL = img
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE profiles
		SET name = $2, username = $3, bio = $4, goal = $5, birth_date = $6, image_url = $7
		WHERE id = $1
	`, current.ID, current.Name, current.Username, current.Bio, current.Goal, current.BirthDate, current.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return current, nil
}

func (s *PostgresProfileService) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM profiles WHERE LOWER(username) = $1)",
		utils.NormalizeUsername(username),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return exists, nil
}

func (s *PostgresProfileService) getByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.scanProfile(s.db.QueryRowContext(ctx, `
		SELECT id, name, username, password_hash, bio, goal, birth_date, joined_at, image_url
		FROM profiles WHERE LOWER(username) = $1
	`, utils.NormalizeUsername(username)))
}

func (s *PostgresProfileService) scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var bio, goal, imageURL sql.NullString
	var birthDate sql.NullTime

	err := row.Scan(&p.ID, &p.Name, &p.Username, &p.Password, &bio, &goal, &birthDate, &p.JoinedAt, &imageURL)
	if err != nil {
		return nil, err
	}

	if bio.Valid {
		p.Bio = &bio.String
	}
	if goal.Valid {
		p.Goal = &goal.String
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if birthDate.Valid {
		p.BirthDate = &birthDate.Time
	}
	return &p, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// isUniqueViolation matches Postgres unique_violation (23505), the race where
// two signups pass the advisory check and both hit the unique index.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
