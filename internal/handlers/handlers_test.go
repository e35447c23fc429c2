package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/moodler-app/backend/internal/handlers"
	"github.com/moodler-app/backend/internal/routes"
	"github.com/moodler-app/backend/internal/services"
)

// testEnv wires the full router over in-memory stores and a miniredis-backed
// session layer, the same wiring main uses with STORE=memory.
type testEnv struct {
	server   *httptest.Server
	profiles *services.MemoryProfileService
	journals *services.MemoryJournalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	profiles := services.NewMemoryProfileService()
	journals := services.NewMemoryJournalService()
	sessions := services.NewSessionService(redisClient)
	hub := services.NewEventHub(redisClient)

	r := chi.NewRouter()
	routes.SetupRoutes(r, routes.Handlers{
		Auth:     handlers.NewAuthHandler(profiles, sessions),
		Profile:  handlers.NewProfileHandler(profiles),
		Journal:  handlers.NewJournalHandler(journals, services.NewMoodClassifier(), hub),
		Insights: handlers.NewInsightsHandler(journals),
		Images:   handlers.NewImagesHandler(services.NewPexelsService("", "https://api.pexels.com", nil), nil),
		Events:   handlers.NewEventsHandler(hub),
	}, sessions)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{server: server, profiles: profiles, journals: journals}
}

// do sends a JSON request and decodes the response body into out (when out is
// non-nil). An empty token leaves the request unauthenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// signup registers a user through the API and returns their session token.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	status := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Test User",
		"username": username,
		"password": "correct horse battery",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("signup %s: status %d", username, status)
	}
	if resp.Token == "" {
		t.Fatal("signup returned no token")
	}
	return resp.Token
}
