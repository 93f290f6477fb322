package main

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

func (a *api) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListRecordings(r.Context())
	if err != nil {
		a.log.Error("list recordings", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Recording{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleRecordingsByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseEntityID(r.PathValue("projectId"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	if _, err := a.store.GetProject(r.Context(), projectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("get project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	items, err := a.store.RecordingsByProject(r.Context(), projectID)
	if err != nil {
		a.log.Error("recordings by project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Recording{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetRecording(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Recording not found")
		return
	}
	rec, err := a.store.GetRecording(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Recording not found")
			return
		}
		a.log.Error("get recording", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, rec)
}

func (a *api) handleCreateRecording(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID string     `json:"projectId"`
		Name      string     `json:"name"`
		Date      *time.Time `json:"date"`
		Duration  string     `json:"duration"`
		ZoomID    string     `json:"zoomId"`
		URL       string     `json:"url"`
		Size      string     `json:"size"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "name is required")
		return
	}
	projectID, err := parseEntityID(req.ProjectID)
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	if _, err := a.store.GetProject(r.Context(), projectID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("get project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	rec := Recording{
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
		Duration:  req.Duration,
		ZoomID:    req.ZoomID,
		URL:       req.URL,
		Size:      req.Size,
	}
	if req.Date != nil {
		rec.Date = *req.Date
	}
	created, err := a.store.CreateRecording(r.Context(), rec)
	if err != nil {
		a.log.Error("create recording", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 201, created)
}

func (a *api) handleUpdateRecording(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Recording not found")
		return
	}
	var upd RecordingUpdate
	if err := readJSON(w, r, &upd); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	rec, err := a.store.UpdateRecording(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Recording not found")
			return
		}
		a.log.Error("update recording", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, rec)
}

func (a *api) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Recording not found")
		return
	}
	if err := a.store.DeleteRecording(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Recording not found")
			return
		}
		a.log.Error("delete recording", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Recording removed"})
}
