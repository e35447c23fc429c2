package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/models"
	"github.com/moodler-app/backend/internal/mood"
	"github.com/moodler-app/backend/internal/services"
)

type InsightsHandler struct {
	journals services.JournalService
}

func NewInsightsHandler(journals services.JournalService) *InsightsHandler {
	return &InsightsHandler{journals: journals}
}

// summaryCopy maps a day's polarity to the home-screen message.
var summaryCopy = map[mood.Polarity]string{
	mood.PolarityPositive: "You seem to be having a good day. Keep it up!",
	mood.PolarityNegative: "Today feels heavy. Be kind to yourself.",
	mood.PolarityNeutral:  "A balanced day so far. Write a little more to see your mood.",
}

// Summary returns the caller's mood polarity for one day. ?date=YYYY-MM-DD,
// defaulting to today.
func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	day, err := parseDayParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entries, err := h.journals.List(r.Context(), userID.String(), services.ListOptions{})
	if err != nil {
		log.Printf("[Summary] failed to load entries: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load journal entries")
		return
	}

	polarity := mood.PolarityForDay(entries, day, mood.DefaultPolarity)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OK",
		Data: map[string]interface{}{
			"date":     day.Format("2006-01-02"),
			"polarity": polarity,
			"summary":  summaryCopy[polarity],
		},
	})
}

// Frequency returns per-mood entry counts for a day or ISO week.
// ?mode=day|week (default day), ?date=YYYY-MM-DD (default today),
// ?unknown=bucket adds an extra "Unknown" point for unlabeled entries.
func (h *InsightsHandler) Frequency(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	day, err := parseDayParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var window mood.Window
	mode := r.URL.Query().Get("mode")
	switch mode {
	case "", "day":
		mode = "day"
		window = mood.DayWindow(day)
	case "week":
		window = mood.WeekWindow(day)
	default:
		writeError(w, http.StatusBadRequest, "mode must be day or week")
		return
	}

	policy := mood.ExcludeUnknown
	if r.URL.Query().Get("unknown") == "bucket" {
		policy = mood.BucketUnknown
	}

	entries, err := h.journals.List(r.Context(), userID.String(), services.ListOptions{})
	if err != nil {
		log.Printf("[Frequency] failed to load entries: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load journal entries")
		return
	}

	points := mood.Frequency(entries, window, models.AllMoods, policy)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "OK",
		Data: map[string]interface{}{
			"mode":   mode,
			"start":  window.Start.Format(time.RFC3339),
			"end":    window.End.Format(time.RFC3339),
			"points": points,
		},
	})
}

func parseDayParam(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
