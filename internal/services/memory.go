package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/pkg/utils"
)

// MemoryProfileService keeps profiles in process memory. Used by the test
// suite and when the server runs with STORE=memory (local development without
// PostgreSQL); data does not survive a restart.
type MemoryProfileService struct {
	mu         sync.RWMutex
	profiles   map[uuid.UUID]*models.Profile
	byUsername map[string]uuid.UUID // lowercased username -> id
}

func NewMemoryProfileService() *MemoryProfileService {
	return &MemoryProfileService{
		profiles:   make(map[uuid.UUID]*models.Profile),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (s *MemoryProfileService) SignUp(ctx context.Context, params models.SignUpParams) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := utils.NormalizeUsername(params.Username)
	if _, exists := s.byUsername[normalized]; exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:        uuid.New(),
		Name:      trimmed(params.Name),
		Username:  trimmed(params.Username),
		Password:  hashed,
		Bio:       normalizeOptional(params.Bio),
		Goal:      normalizeOptional(params.Goal),
		BirthDate: params.BirthDate,
		JoinedAt:  time.Now().UTC(),
		ImageURL:  normalizeOptional(params.ImageURL),
	}

	s.profiles[profile.ID] = profile
	s.byUsername[normalized] = profile.ID

	out := *profile
	return &out, nil
}

func (s *MemoryProfileService) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[utils.NormalizeUsername(username)]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	profile := s.profiles[id]

	valid, err := utils.VerifyPassword(password, profile.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	out := *profile
	return &out, nil
}

func (s *MemoryProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := *profile
	return &out, nil
}

func (s *MemoryProfileService) Update(ctx context.Context, id uuid.UUID, params models.UpdateProfileParams) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}

	newUsername := trimmed(params.Username)
	oldKey := utils.NormalizeUsername(profile.Username)
	newKey := utils.NormalizeUsername(newUsername)
	if newKey != oldKey {
		if _, exists := s.byUsername[newKey]; exists {
			return nil, ErrUsernameTaken
		}
		delete(s.byUsername, oldKey)
		s.byUsername[newKey] = id
	}
	// Case-only changes keep the same key but still take the new casing.
	profile.Username = newUsername

	profile.Name = trimmed(params.Name)
	profile.Bio = normalizeOptional(params.Bio)
	profile.Goal = normalizeOptional(params.Goal)
	profile.BirthDate = params.BirthDate
	if img := normalizeOptional(params.ImageURL); img != nil {
		profile.ImageURL = img
	}

	out := *profile
	return &out, nil
}

func (s *MemoryProfileService) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byUsername[utils.NormalizeUsername(username)]
	return exists, nil
}

// MemoryJournalService is the in-memory counterpart to MongoJournalService.
type MemoryJournalService struct {
	mu      sync.RWMutex
	entries map[string]*models.Entry
}

func NewMemoryJournalService() *MemoryJournalService {
	return &MemoryJournalService{entries: make(map[string]*models.Entry)}
}

func (s *MemoryJournalService) Save(ctx context.Context, entry *models.Entry) error {
	defaultEntry(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	// An id held by another owner is invisible to this caller, same as
	// ToggleFavourite: the entry must not be overwritten or re-owned.
	if existing, ok := s.entries[entry.ID]; ok && existing.OwnerID != entry.OwnerID {
		return ErrEntryNotFound
	}

	stored := *entry
	s.entries[entry.ID] = &stored
	return nil
}

func (s *MemoryJournalService) List(ctx context.Context, ownerID string, opts ListOptions) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Entry, 0)
	for _, e := range s.entries {
		if e.OwnerID != ownerID {
			continue
		}
		if opts.FavouritesOnly && !e.IsFavourite {
			continue
		}
		out = append(out, *e)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryJournalService) Delete(ctx context.Context, ownerID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[entryID]; ok && e.OwnerID == ownerID {
		delete(s.entries, entryID)
	}
	return nil
}

func (s *MemoryJournalService) ToggleFavourite(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok || e.OwnerID != ownerID {
		return nil, ErrEntryNotFound
	}

	e.IsFavourite = !e.IsFavourite
	out := *e
	return &out, nil
}
