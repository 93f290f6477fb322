package main

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestCreateRecording(t *testing.T) {
	env := newTestEnv(t)
	p, _ := env.store.CreateProject(context.Background(), Project{Name: "P"})

	rr := env.do(t, http.MethodPost, "/api/recordings", map[string]any{
		"projectId": p.ID.String(),
		"name":      "Weekly sync",
		"date":      time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC),
		"duration":  "30:00",
		"url":       "https://zoom.us/rec/share/xyz",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	rec := decodeAs[Recording](t, rr)
	if rec.ProjectID != p.ID || rec.Name != "Weekly sync" || rec.Duration != "30:00" {
		t.Errorf("recording = %+v", rec)
	}
	if rec.Processed || rec.MinutesGenerated {
		t.Errorf("flags should start false: %+v", rec)
	}
}

func TestCreateRecordingMissingProject(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/recordings", map[string]any{
		"projectId": "0b6a2f4e-0000-4000-8000-000000000000",
		"name":      "Orphan",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%s)", rr.Code, rr.Body.String())
	}
	if len(env.store.recordings) != 0 {
		t.Error("recording persisted despite missing project")
	}
}

func TestRecordingsByProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1, _ := env.store.CreateProject(ctx, Project{Name: "P1"})
	p2, _ := env.store.CreateProject(ctx, Project{Name: "P2"})
	env.store.CreateRecording(ctx, Recording{ProjectID: p1.ID, Name: "A"})
	env.store.CreateRecording(ctx, Recording{ProjectID: p1.ID, Name: "B"})
	env.store.CreateRecording(ctx, Recording{ProjectID: p2.ID, Name: "C"})

	rr := env.do(t, http.MethodGet, "/api/recordings/project/"+p1.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	recs := decodeAs[[]Recording](t, rr)
	if len(recs) != 2 {
		t.Errorf("recordings = %d, want 2", len(recs))
	}

	rr = env.do(t, http.MethodGet, "/api/recordings/project/1b6a2f4e-0000-4000-8000-000000000000", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown project status = %d, want 404", rr.Code)
	}
}

func TestDeleteRecordingDetachesMinutes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, _ := env.store.CreateProject(ctx, Project{Name: "P"})
	rec, _ := env.store.CreateRecording(ctx, Recording{ProjectID: p.ID, Name: "R"})
	m, _ := env.store.CreateMinutes(ctx, Minutes{ProjectID: p.ID, RecordingID: &rec.ID, Name: "M", Content: "c"})

	rr := env.do(t, http.MethodDelete, "/api/recordings/"+rec.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rr.Code, rr.Body.String())
	}
	got, err := env.store.GetMinutes(ctx, m.ID)
	if err != nil {
		t.Fatalf("minutes deleted with recording: %v", err)
	}
	if got.RecordingID != nil {
		t.Error("minutes still reference deleted recording")
	}
}
