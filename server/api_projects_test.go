package main

import (
	"context"
	"net/http"
	"testing"
)

func TestCreateProjectDefaults(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Website Relaunch"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	p := decodeAs[Project](t, rr)
	if p.Status != StatusNotStarted {
		t.Errorf("status = %q, want %q", p.Status, StatusNotStarted)
	}
	if p.StartDate.IsZero() {
		t.Error("startDate not defaulted")
	}
	if p.AutoDistribution.ScheduleType != "immediate" || p.AutoDistribution.Time != "09:00" {
		t.Errorf("autoDistribution defaults = %+v", p.AutoDistribution)
	}
	if p.Team == nil {
		t.Error("team should default to empty slice")
	}
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"description": "no name"}},
		{"blank name", map[string]any{"name": "   "}},
		{"bad status", map[string]any{"name": "X", "status": "Done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/projects", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
		})
	}
	if len(env.store.projects) != 0 {
		t.Errorf("rejected creates persisted %d projects", len(env.store.projects))
	}
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/projects/8e6f0f0e-0000-4000-8000-000000000000",
		"/api/projects/not-a-uuid",
	} {
		rr := env.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("GET %s: status = %d, want 404", path, rr.Code)
		}
		body := decodeAs[map[string]string](t, rr)
		if body["message"] != "Project not found" {
			t.Errorf("GET %s: message = %q", path, body["message"])
		}
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.store.CreateProject(context.Background(), Project{
		Name:              "Infra Migration",
		Description:       "move everything",
		EmailDistribution: "ops@x.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	rr := env.do(t, http.MethodPut, "/api/projects/"+p.ID.String(), map[string]any{"status": StatusInProgress})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	got := decodeAs[Project](t, rr)
	if got.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", got.Status, StatusInProgress)
	}
	if got.Name != "Infra Migration" || got.Description != "move everything" || got.EmailDistribution != "ops@x.com" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestUpdateProjectRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.store.CreateProject(context.Background(), Project{Name: "Keep"})

	rr := env.do(t, http.MethodPut, "/api/projects/"+p.ID.String(), map[string]any{"name": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	cur, _ := env.store.GetProject(context.Background(), p.ID)
	if cur.Name != "Keep" {
		t.Errorf("name changed to %q", cur.Name)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.store.CreateProject(ctx, Project{Name: "Doomed"})
	rec, _ := env.store.CreateRecording(ctx, Recording{ProjectID: p.ID, Name: "Sync"})
	m, _ := env.store.CreateMinutes(ctx, Minutes{ProjectID: p.ID, Name: "Sync notes", Content: "<p>hi</p>"})

	rr := env.do(t, http.MethodDelete, "/api/projects/"+p.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	if _, err := env.store.GetRecording(ctx, rec.ID); err != ErrNotFound {
		t.Errorf("recording survived project delete: %v", err)
	}
	if _, err := env.store.GetMinutes(ctx, m.ID); err != ErrNotFound {
		t.Errorf("minutes survived project delete: %v", err)
	}

	rr = env.do(t, http.MethodDelete, "/api/projects/"+p.ID.String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rr.Code)
	}
}

func TestListProjectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/projects", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("empty list body = %q, want []", body)
	}
}
