package mood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moodler-app/backend/internal/models"
)

func entryAt(t time.Time, emotion string) models.Entry {
	return models.Entry{ID: emotion + t.String(), CreatedAt: t, Emotion: emotion}
}

func TestPolarityForDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		emotions []string
		want     Polarity
	}{
		{"two positive one negative", []string{"Joy", "Joy", "Sadness"}, PolarityPositive},
		{"two negative one positive", []string{"Fear", "Anger", "Love"}, PolarityNegative},
		{"balanced", []string{"Joy", "Sadness"}, PolarityNeutral},
		{"no entries", nil, PolarityNeutral},
		{"only unscored labels", []string{"Confused", ""}, PolarityNeutral},
		{"case folds before scoring", []string{"joy", "JOY", "sadness"}, PolarityPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []models.Entry
			for _, e := range tt.emotions {
				entries = append(entries, entryAt(day, e))
			}
			assert.Equal(t, tt.want, PolarityForDay(entries, day, DefaultPolarity))
		})
	}
}

func TestPolarityForDayIgnoresOtherDays(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	entries := []models.Entry{
		entryAt(day.Add(23*time.Hour+59*time.Minute), "Sadness"), // inside
		entryAt(day.AddDate(0, 0, 1), "Joy"),                     // next day, excluded
		entryAt(day.Add(-time.Nanosecond), "Joy"),                // previous day, excluded
	}

	assert.Equal(t, PolarityNegative, PolarityForDay(entries, day, DefaultPolarity))
}

func TestPolarityForDaySkipsZeroDates(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	entries := []models.Entry{{Emotion: "Joy"}} // zero CreatedAt

	assert.Equal(t, PolarityNeutral, PolarityForDay(entries, day, DefaultPolarity))
}

func TestFrequencyFixedOrderAndZeroFill(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	window := DayWindow(day)

	entries := []models.Entry{
		entryAt(day, "Love"),
		entryAt(day, "Sadness"),
		entryAt(day, "love"),
	}

	points := Frequency(entries, window, models.AllMoods, ExcludeUnknown)

	want := []models.MoodDataPoint{
		{Mood: "Joy", Count: 0},
		{Mood: "Sadness", Count: 1},
		{Mood: "Fear", Count: 0},
		{Mood: "Anger", Count: 0},
		{Mood: "Surprise", Count: 0},
		{Mood: "Love", Count: 2},
	}
	assert.Equal(t, want, points)
}

func TestFrequencyEmptyInputKeepsAxis(t *testing.T) {
	window := DayWindow(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	points := Frequency(nil, window, models.AllMoods, ExcludeUnknown)

	assert.Len(t, points, len(models.AllMoods))
	for i, p := range points {
		assert.Equal(t, models.AllMoods[i], p.Mood)
		assert.Zero(t, p.Count)
	}
}

func TestFrequencyUnknownPolicy(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	window := DayWindow(day)

	entries := []models.Entry{
		entryAt(day, "Joy"),
		entryAt(day, ""),          // never classified
		entryAt(day, "Perplexed"), // not a canonical label
	}

	excluded := Frequency(entries, window, models.AllMoods, ExcludeUnknown)
	assert.Len(t, excluded, len(models.AllMoods))
	assert.Equal(t, 1, excluded[0].Count) // Joy

	bucketed := Frequency(entries, window, models.AllMoods, BucketUnknown)
	assert.Len(t, bucketed, len(models.AllMoods)+1)
	last := bucketed[len(bucketed)-1]
	assert.Equal(t, UnknownLabel, last.Mood)
	assert.Equal(t, 2, last.Count)
}

func TestWeekWindowStartsMonday(t *testing.T) {
	// 2026-03-14 is a Saturday; its ISO week starts Monday 2026-03-09.
	sat := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	window := WeekWindow(sat)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), window.End)

	// Sunday belongs to the same week, not the next one.
	sun := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, window.Start, WeekWindow(sun).Start)
}

func TestWindowIsHalfOpen(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	window := DayWindow(day)

	assert.True(t, window.Contains(window.Start))
	assert.False(t, window.Contains(window.End))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Joy", Normalize("joy"))
	assert.Equal(t, "Joy", Normalize(" JOY "))
	assert.Equal(t, "Sadness", Normalize("sADNESS"))
	assert.Equal(t, "", Normalize("   "))
}
