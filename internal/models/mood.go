package models

// MoodDataPoint is one bar of a mood chart: a label and how many entries
// carried it inside the charted window. Derived, never persisted.
type MoodDataPoint struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// AllMoods is the canonical label set produced by the classifier. Charts use
// this order as a fixed x-axis.
var AllMoods = []string{"Joy", "Sadness", "Fear", "Anger", "Surprise", "Love"}
