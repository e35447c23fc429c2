package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moodler-app/backend/internal/models"
)

// ErrEntryNotFound is returned by ToggleFavourite for an unknown entry id.
// Delete deliberately does NOT return it: deleting an already-removed entry
// is a no-op.
var ErrEntryNotFound = errors.New("journal entry not found")

// ListOptions narrows a List call.
type ListOptions struct {
	FavouritesOnly bool
}

// JournalService is CRUD over one owner's journal entries. All queries are
// scoped by owner id; entries are returned newest first with id as the
// deterministic tie-break.
type JournalService interface {
	// Save persists the full field set of an entry, creating or updating in
	// place. Missing id/date/owner are defaulted defensively before the write.
	// Saving an id that exists under a different owner returns
	// ErrEntryNotFound; an entry can never change hands through Save.
	Save(ctx context.Context, entry *models.Entry) error
	List(ctx context.Context, ownerID string, opts ListOptions) ([]models.Entry, error)
	// Delete is idempotent: removing an absent entry succeeds and changes nothing.
	Delete(ctx context.Context, ownerID, entryID string) error
	// ToggleFavourite flips the flag, persists it and returns the updated entry.
	ToggleFavourite(ctx context.Context, ownerID, entryID string) (*models.Entry, error)
}

// NewDraft builds a fresh, not-yet-persisted entry for the owner. The caller
// holds the draft and may discard it without a trace, or pass it to Save.
func NewDraft(ownerID string) *models.Entry {
	now := time.Now().UTC()
	return &models.Entry{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     "",
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// defaultEntry fills in whatever a caller-supplied entry is missing so a save
// can never persist an unidentified or undated record. The owner is stamped by
// the HTTP layer from the session before Save is called.
func defaultEntry(entry *models.Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.UpdatedAt = time.Now().UTC()
}
