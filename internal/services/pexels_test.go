package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const pexelsFixture = `{
	"photos": [
		{
			"id": 12345,
			"width": 4000,
			"height": 3000,
			"photographer": "Jane Doe",
			"src": {
				"original": "https://images.example/12345/original.jpg",
				"large": "https://images.example/12345/large.jpg",
				"medium": "https://images.example/12345/medium.jpg",
				"small": "https://images.example/12345/small.jpg"
			},
			"alt": "calm sea at dusk"
		}
	],
	"total_results": 1,
	"page": 1,
	"per_page": 20
}`

func TestPexelsSearch(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pexelsFixture))
	}))
	defer server.Close()

	s := NewPexelsService("test-key", server.URL, nil)

	result, err := s.Search(context.Background(), "calm sea", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotAuth != "test-key" {
		t.Fatalf("Authorization header %q, want the raw API key", gotAuth)
	}
	if gotQuery != "calm sea" {
		t.Fatalf("query param %q, want %q", gotQuery, "calm sea")
	}
	if len(result.Photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(result.Photos))
	}
	if result.Photos[0].Src.Medium != "https://images.example/12345/medium.jpg" {
		t.Fatalf("unexpected medium url %q", result.Photos[0].Src.Medium)
	}
}

func TestPexelsSearchEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photos": null, "total_results": 0, "page": 1, "per_page": 20}`))
	}))
	defer server.Close()

	s := NewPexelsService("test-key", server.URL, nil)

	result, err := s.Search(context.Background(), "xyzzy", 1)
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if result.Photos == nil || len(result.Photos) != 0 {
		t.Fatalf("expected an empty slice, got %#v", result.Photos)
	}
}

func TestPexelsSearchUpstreamFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewPexelsService("test-key", server.URL, nil)

	if _, err := s.Search(context.Background(), "anything", 1); err == nil {
		t.Fatal("a failed upstream call must not look like zero results")
	}
}

func TestPexelsSearchWithoutKey(t *testing.T) {
	s := NewPexelsService("", "https://api.pexels.com", nil)

	if _, err := s.Search(context.Background(), "anything", 1); !errors.Is(err, ErrPexelsNotConfigured) {
		t.Fatalf("expected ErrPexelsNotConfigured, got %v", err)
	}
}

func TestPexelsSearchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	s := NewPexelsService("test-key", server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Search(ctx, "abandoned query", 1); err == nil {
		t.Fatal("cancelled search must fail, not return stale data")
	}
}

func TestPexelsSearchServesRepeatFromCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(pexelsFixture))
	}))
	defer server.Close()

	cache := NewCacheService(testRedis(t))
	s := NewPexelsService("test-key", server.URL, cache)

	for i := 0; i < 3; i++ {
		if _, err := s.Search(context.Background(), "calm sea", 1); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("upstream hit %d times, want 1 (cache should serve repeats)", got)
	}
}
