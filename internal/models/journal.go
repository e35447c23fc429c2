package models

import "time"

// Entry represents a single journal entry. An entry always belongs to exactly
// one owner. ImageData (an uploaded cover photo URL on Cloudinary) and
// ImageURL (a remote Pexels photo URL) are mutually exclusive in the app's UI
// but the store does not enforce that.
type Entry struct {
	ID          string    `bson:"_id" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	Title       string    `bson:"title" json:"title"`
	Content     string    `bson:"content" json:"content"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	IsFavourite bool      `bson:"is_favourite" json:"is_favourite"`
	ImageData   string    `bson:"image_data,omitempty" json:"image_data,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Emotion     string    `bson:"emotion,omitempty" json:"emotion,omitempty"`
}
