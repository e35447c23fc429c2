package handlers_test

import (
	"net/http"
	"testing"
)

func TestSignupAndMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "luna")

	var me struct {
		Success bool `json:"success"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	status := env.do(t, http.MethodGet, "/api/auth/me", token, nil, &me)
	if status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	if me.User.Username != "luna" {
		t.Fatalf("me returned username %q", me.User.Username)
	}
}

func TestSignupDuplicateUsernameConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "luna")

	status := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Another User",
		"username": "LUNA",
		"password": "different password 9",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("case-variant duplicate signup: status %d, want 409", status)
	}
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{"name": "A", "username": "ab", "password": "long enough pass"}},
		{"bad characters", map[string]string{"name": "A", "username": "luna!fox", "password": "long enough pass"}},
		{"short password", map[string]string{"name": "A", "username": "luna", "password": "short"}},
		{"missing fields", map[string]string{"username": "luna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := env.do(t, http.MethodPost, "/api/auth/signup", "", tt.body, nil); status != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", status)
			}
		})
	}
}

func TestSigninWrongCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "luna")

	var wrongPass, noUser struct {
		Message string `json:"message"`
	}
	status := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"username": "luna", "password": "wrong",
	}, &wrongPass)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", status)
	}

	status = env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"username": "nobody", "password": "wrong",
	}, &noUser)
	if status != http.StatusUnauthorized {
		t.Fatalf("unknown user: status %d, want 401", status)
	}

	// Same message either way, so the endpoint never leaks which usernames exist.
	if wrongPass.Message != noUser.Message {
		t.Fatalf("messages differ: %q vs %q", wrongPass.Message, noUser.Message)
	}
}

func TestSigninCaseInsensitiveUsername(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "luna")

	status := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"username": "LuNa", "password": "correct horse battery",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("case-variant signin: status %d, want 200", status)
	}
}

func TestSignoutEndsSessionButKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "luna")

	if status := env.do(t, http.MethodPost, "/api/auth/signout", token, nil, nil); status != http.StatusOK {
		t.Fatalf("signout: status %d", status)
	}
	if status := env.do(t, http.MethodGet, "/api/auth/me", token, nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("token should be dead after signout, got status %d", status)
	}

	// The account survives; signing back in works.
	if status := env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"username": "luna", "password": "correct horse battery",
	}, nil); status != http.StatusOK {
		t.Fatalf("signin after signout: status %d", status)
	}
}

func TestCheckUsername(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "luna")

	var taken struct {
		Available bool `json:"available"`
	}
	if status := env.do(t, http.MethodPost, "/api/auth/check-username", "", map[string]string{"username": "LUNA"}, &taken); status != http.StatusOK {
		t.Fatalf("check taken: status %d", status)
	}
	if taken.Available {
		t.Fatal("case variant of a taken username reported available")
	}

	var free struct {
		Available bool `json:"available"`
	}
	if status := env.do(t, http.MethodPost, "/api/auth/check-username", "", map[string]string{"username": "remus"}, &free); status != http.StatusOK {
		t.Fatalf("check free: status %d", status)
	}
	if !free.Available {
		t.Fatal("fresh username reported taken")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/journals"},
		{http.MethodPost, "/api/journals"},
		{http.MethodGet, "/api/insights/summary"},
		{http.MethodPut, "/api/profile"},
	}
	for _, p := range paths {
		if status := env.do(t, p.method, p.path, "", nil, nil); status != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: status %d, want 401", p.method, p.path, status)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup(t, "luna")

	var resp struct {
		Data struct {
			Username string  `json:"username"`
			Bio      *string `json:"bio"`
		} `json:"data"`
	}
	status := env.do(t, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"name":     "Luna L",
		"username": "luna",
		"bio":      "night owl",
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("update profile: status %d", status)
	}
	if resp.Data.Bio == nil || *resp.Data.Bio != "night owl" {
		t.Fatalf("bio not persisted: %+v", resp.Data)
	}
}

func TestUpdateProfileToTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "luna")
	token := env.signup(t, "remus")

	status := env.do(t, http.MethodPut, "/api/profile", token, map[string]string{
		"name":     "Remus",
		"username": "Luna",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("rename to taken username: status %d, want 409", status)
	}
}
