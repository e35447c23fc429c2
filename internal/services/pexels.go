package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/moodler-app/backend/internal/models"
)

// pexelsPerPage matches the app's picker grid size.
const pexelsPerPage = 20

// ErrPexelsNotConfigured is returned when no API key is set.
var ErrPexelsNotConfigured = errors.New("pexels api key not configured")

// PexelsService searches the Pexels photo API for journal cover images.
// Failures are returned to the caller, never collapsed into an empty result
// list; "no results" and "request failed" stay distinguishable. Results are
// cached briefly so retyping the same query doesn't hit the upstream again.
type PexelsService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *CacheService // optional
}

func NewPexelsService(apiKey, baseURL string, cache *CacheService) *PexelsService {
	return &PexelsService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
	}
}

// Search runs a photo search. The context binds the upstream call to the
// caller's request: a client that abandons its search cancels the in-flight
// upstream request, so a superseded query can never deliver a stale result.
func (s *PexelsService) Search(ctx context.Context, query string, page int) (*models.PexelsResponse, error) {
	if s.apiKey == "" {
		return nil, ErrPexelsNotConfigured
	}
	if page < 1 {
		page = 1
	}

	cacheKey := CacheKey("pexels", strings.ToLower(strings.TrimSpace(query))+":"+strconv.Itoa(page))
	if s.cache != nil {
		var cached models.PexelsResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s/v1/search?query=%s&per_page=%d&page=%d",
		s.baseURL, url.QueryEscape(query), pexelsPerPage, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	var result models.PexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding pexels response: %w", err)
	}
	if result.Photos == nil {
		result.Photos = []models.Photo{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &result); err != nil {
			log.Printf("warning: failed to cache pexels results: %v", err)
		}
	}

	return &result, nil
}
