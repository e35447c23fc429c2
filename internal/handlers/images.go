package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/moodler-app/backend/internal/services"
)

type ImagesHandler struct {
	pexels     *services.PexelsService
	cloudinary *services.CloudinaryService
}

func NewImagesHandler(pexels *services.PexelsService, cloudinary *services.CloudinaryService) *ImagesHandler {
	return &ImagesHandler{pexels: pexels, cloudinary: cloudinary}
}

// Search proxies a photo search to Pexels. ?query= is required, ?page=
// defaults to 1. The request context carries through, so a client that has
// already typed a newer query can cancel the stale one.
func (h *ImagesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.pexels.Search(r.Context(), query, page)
	if errors.Is(err, services.ErrPexelsNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "Image search is not configured")
		return
	} else if err != nil {
		log.Printf("[ImageSearch] upstream failure: %v", err)
		writeError(w, http.StatusBadGateway, "Image search failed")
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "OK", Data: result})
}

// Upload stores a journal cover photo on Cloudinary and returns its URL.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.cloudinary == nil {
		writeError(w, http.StatusServiceUnavailable, "File uploads are not configured")
		return
	}

	// 10 MB cap, matching the client's image compression target.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image uploads are allowed")
		return
	}

	url, err := h.cloudinary.UploadFile(r.Context(), file, "journal_covers")
	if err != nil {
		log.Printf("[Upload] cloudinary failure: %v", err)
		writeError(w, http.StatusBadGateway, "Upload failed")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Upload complete",
		Data:    map[string]string{"url": url},
	})
}
