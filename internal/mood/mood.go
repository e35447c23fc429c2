// Package mood turns a user's journal entries into chart-ready aggregates.
// Everything here is a pure projection over the entry slice: no I/O, no
// mutation of the input.
package mood

import (
	"strings"
	"time"
	"unicode"

	"github.com/moodler-app/backend/internal/models"
)

// Polarity is the overall lean of a day's entries.
type Polarity string

const (
	PolarityPositive Polarity = "Positive"
	PolarityNegative Polarity = "Negative"
	PolarityNeutral  Polarity = "Neutral"
)

// UnknownPolicy controls how entries without a recognized emotion label are
// counted by Frequency. The app's screens disagreed on this, so it is an
// explicit parameter rather than a baked-in choice.
type UnknownPolicy int

const (
	// ExcludeUnknown drops unlabeled entries from the chart entirely.
	ExcludeUnknown UnknownPolicy = iota
	// BucketUnknown counts unlabeled entries under an extra "Unknown" point
	// appended after the fixed label order.
	BucketUnknown
)

// UnknownLabel is the bucket name used by BucketUnknown.
const UnknownLabel = "Unknown"

// DefaultPolarity scores each canonical mood label: positive moods +1,
// negative moods -1. Labels absent from the table contribute 0.
var DefaultPolarity = map[string]int{
	"Joy":      1,
	"Love":     1,
	"Surprise": 1,
	"Sadness":  -1,
	"Anger":    -1,
	"Fear":     -1,
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow is the calendar day containing t, in t's location.
func DayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekWindow is the ISO week containing t: Monday 00:00 through the following
// Monday, in t's location.
func WeekWindow(t time.Time) Window {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := day.AddDate(0, 0, -(weekday - 1))
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// Normalize canonicalizes an emotion label: trims whitespace, folds case and
// capitalizes the first rune, so "joy", "JOY" and " Joy " all become "Joy".
func Normalize(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	runes := []rune(strings.ToLower(label))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// PolarityForDay sums the polarity scores of the day's entries. A positive
// sum is Positive, negative is Negative, and exactly zero (including a day
// with no entries at all) is Neutral.
func PolarityForDay(entries []models.Entry, day time.Time, table map[string]int) Polarity {
	window := DayWindow(day)

	score := 0
	for _, e := range entries {
		if e.CreatedAt.IsZero() || !window.Contains(e.CreatedAt) {
			continue
		}
		score += table[Normalize(e.Emotion)]
	}

	switch {
	case score > 0:
		return PolarityPositive
	case score < 0:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// Frequency counts entries per mood label inside the window. The result
// follows the order of labels exactly, one point per label with zero counts
// filled in, so charts keep a stable x-axis. Entries with a zero date are
// never counted; entries whose label is empty or not in labels are handled
// per policy.
func Frequency(entries []models.Entry, window Window, labels []string, policy UnknownPolicy) []models.MoodDataPoint {
	known := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		known[l] = struct{}{}
	}

	counts := make(map[string]int, len(labels))
	unknown := 0
	for _, e := range entries {
		if e.CreatedAt.IsZero() || !window.Contains(e.CreatedAt) {
			continue
		}
		label := Normalize(e.Emotion)
		if _, ok := known[label]; ok {
			counts[label]++
			continue
		}
		if policy == BucketUnknown {
			unknown++
		}
		// ExcludeUnknown: unlabeled and unrecognized entries drop out.
	}

	points := make([]models.MoodDataPoint, 0, len(labels)+1)
	for _, l := range labels {
		points = append(points, models.MoodDataPoint{Mood: l, Count: counts[l]})
	}
	if policy == BucketUnknown {
		points = append(points, models.MoodDataPoint{Mood: UnknownLabel, Count: unknown})
	}
	return points
}
