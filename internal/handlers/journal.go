package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/internal/services"
)

type JournalHandler struct {
	journals   services.JournalService
	classifier *services.MoodClassifier
	events     *services.EventHub
}

func NewJournalHandler(journals services.JournalService, classifier *services.MoodClassifier, events *services.EventHub) *JournalHandler {
	return &JournalHandler{journals: journals, classifier: classifier, events: events}
}

type SaveEntryRequest struct {
	ID        string  `json:"id,omitempty"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"created_at,omitempty"` // RFC 3339
	ImageData string  `json:"image_data,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
	Emotion   string  `json:"emotion,omitempty"`
}

// Draft hands out a fresh entry without persisting anything. A draft the
// client never saves leaves no trace in the store.
func (h *JournalHandler) Draft(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	draft := services.NewDraft(userID.String())
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Draft created", Data: draft})
}

// Save creates or updates an entry. Mounted as both POST /api/journals and
// PUT /api/journals/{id}; a path id overrides any id in the body. When the
// client sends no emotion the classifier derives one from the content.
func (h *JournalHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if pathID := chi.URLParam(r, "id"); pathID != "" {
		req.ID = pathID
	}

	entry := &models.Entry{
		ID:        req.ID,
		OwnerID:   userID.String(),
		Title:     req.Title,
		Content:   req.Content,
		ImageData: req.ImageData,
		ImageURL:  req.ImageURL,
		Emotion:   req.Emotion,
	}

	if req.CreatedAt != nil && *req.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, *req.CreatedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_at must be RFC 3339")
			return
		}
		entry.CreatedAt = createdAt.UTC()
	}

	if entry.Emotion == "" {
		entry.Emotion = h.classifier.Classify(entry.Content)
	}

	if err := h.journals.Save(r.Context(), entry); errors.Is(err, services.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	} else if err != nil {
		log.Printf("[SaveEntry] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save journal entry")
		return
	}

	h.events.Publish(r.Context(), services.JournalEvent{
		Type:    services.EventEntrySaved,
		OwnerID: entry.OwnerID,
		EntryID: entry.ID,
		Entry:   entry,
	})

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Journal entry saved", Data: entry})
}

// List returns the caller's entries, newest first. ?favourites=true narrows
// to favourited entries only.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	opts := services.ListOptions{
		FavouritesOnly: r.URL.Query().Get("favourites") == "true",
	}

	entries, err := h.journals.List(r.Context(), userID.String(), opts)
	if err != nil {
		log.Printf("[ListEntries] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load journal entries")
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "OK", Data: entries})
}

// Delete removes an entry. Deleting an entry that is already gone succeeds.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := chi.URLParam(r, "id")

	if err := h.journals.Delete(r.Context(), userID.String(), entryID); err != nil {
		log.Printf("[DeleteEntry] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete journal entry")
		return
	}

	h.events.Publish(r.Context(), services.JournalEvent{
		Type:    services.EventEntryDeleted,
		OwnerID: userID.String(),
		EntryID: entryID,
	})

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Journal entry deleted"})
}

// ToggleFavourite flips the favourite flag and returns the updated entry.
func (h *JournalHandler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID := chi.URLParam(r, "id")

	entry, err := h.journals.ToggleFavourite(r.Context(), userID.String(), entryID)
	if errors.Is(err, services.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	} else if err != nil {
		log.Printf("[ToggleFavourite] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update journal entry")
		return
	}

	h.events.Publish(r.Context(), services.JournalEvent{
		Type:    services.EventEntryFavourited,
		OwnerID: entry.OwnerID,
		EntryID: entry.ID,
		Entry:   entry,
	})

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Journal entry updated", Data: entry})
}
