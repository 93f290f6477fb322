package main

import (
	"context"
	"net/http"
	"testing"
)

func TestCreateUserDefaults(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/users", map[string]any{
		"name":  "Ann Example",
		"email": "ann@x.com",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	u := decodeAs[User](t, rr)
	if u.Role != RoleTeamMember {
		t.Errorf("role = %q, want %q", u.Role, RoleTeamMember)
	}
	if !u.NotificationSettings.EmailNotifications {
		t.Error("emailNotifications should default on")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.store.CreateUser(context.Background(), User{Name: "Ann", Email: "ann@x.com"})

	// The email match ignores case, like the unique lookup in the store.
	for _, email := range []string{"ann@x.com", "Ann@X.com"} {
		rr := env.do(t, http.MethodPost, "/api/users", map[string]any{
			"name":  "Another Ann",
			"email": email,
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("email %q: status = %d, want 400", email, rr.Code)
		}
		body := decodeAs[map[string]string](t, rr)
		if body["message"] != "User already exists" {
			t.Errorf("email %q: message = %q", email, body["message"])
		}
	}
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"name": "Ann"}},
		{"missing name", map[string]any{"email": "a@x.com"}},
		{"bad role", map[string]any{"name": "Ann", "email": "a@x.com", "role": "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/users", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestUserZoomSecretNeverReturned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u, _ := env.store.CreateUser(ctx, User{Name: "Ann", Email: "ann@x.com"})

	rr := env.do(t, http.MethodPut, "/api/users/"+u.ID.String(), map[string]any{
		"zoomIntegration": map[string]any{"apiKey": "k1", "apiSecret": "s3cret", "connected": true},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	got := decodeAs[User](t, rr)
	if got.ZoomIntegration.APISecret != "" {
		t.Error("apiSecret leaked in update response")
	}
	if got.ZoomIntegration.APIKey != "k1" || !got.ZoomIntegration.Connected {
		t.Errorf("zoomIntegration = %+v", got.ZoomIntegration)
	}

	// The secret stays stored for later merges even though reads scrub it.
	raw := env.store.users[u.ID]
	if raw.ZoomIntegration.APISecret != "s3cret" {
		t.Errorf("stored secret = %q", raw.ZoomIntegration.APISecret)
	}

	rr = env.do(t, http.MethodPut, "/api/users/"+u.ID.String(), map[string]any{
		"zoomIntegration": map[string]any{"apiKey": "k2"},
	})
	raw = env.store.users[u.ID]
	if raw.ZoomIntegration.APISecret != "s3cret" || raw.ZoomIntegration.APIKey != "k2" {
		t.Errorf("merge lost fields: %+v", raw.ZoomIntegration)
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.store.CreateUser(context.Background(), User{Name: "Ann", Email: "ann@x.com"})

	rr := env.do(t, http.MethodDelete, "/api/users/"+u.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	rr = env.do(t, http.MethodDelete, "/api/users/"+u.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}
