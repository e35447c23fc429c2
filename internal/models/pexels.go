package models

// PexelsResponse is the wire shape of the Pexels /v1/search endpoint.
type PexelsResponse struct {
	Photos       []Photo `json:"photos"`
	TotalResults int     `json:"total_results"`
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
}

// Photo is a single Pexels search result. The picker consumes src.medium for
// the grid and src.large for the selected cover image.
type Photo struct {
	ID           int      `json:"id"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	URL          string   `json:"url"`
	Photographer string   `json:"photographer"`
	Src          PhotoSrc `json:"src"`
}

type PhotoSrc struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Small    string `json:"small"`
}
