package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (a *api) handleListMinutes(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListMinutes(r.Context())
	if err != nil {
		a.log.Error("list minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Minutes{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleMinutesByProject(w http.ResponseWriter, r *http.Request) {
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
	items, err := a.store.MinutesByProject(r.Context(), projectID)
	if err != nil {
		a.log.Error("minutes by project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Minutes{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetMinutes(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Meeting minutes not found")
		return
	}
	m, err := a.store.GetMinutes(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Meeting minutes not found")
			return
		}
		a.log.Error("get minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, m)
}

func (a *api) handleCreateMinutes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectID   string       `json:"projectId"`
		RecordingID string       `json:"recordingId"`
		Name        string       `json:"name"`
		Date        *time.Time   `json:"date"`
		Attendees   []string     `json:"attendees"`
		Summary     string       `json:"summary"`
		Content     string       `json:"content"`
		ActionItems []ActionItem `json:"actionItems"`
		NextSync    string       `json:"nextSync"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Content) == "" || req.Date == nil {
		writeError(w, 400, "name, date and content are required")
		return
	}
	for _, item := range req.ActionItems {
		if strings.TrimSpace(item.Description) == "" {
			writeError(w, 400, "action item description is required")
			return
		}
		if !validActionStatus(item.Status) {
			writeError(w, 400, "invalid action item status")
			return
		}
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
	var recordingID *uuid.UUID
	if req.RecordingID != "" {
		rid, err := parseEntityID(req.RecordingID)
		if err != nil {
			writeError(w, 404, "Recording not found")
			return
		}
		if _, err := a.store.GetRecording(r.Context(), rid); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, 404, "Recording not found")
				return
			}
			a.log.Error("get recording", "err", err)
			writeError(w, 500, "server error")
			return
		}
		recordingID = &rid
	}
	m := Minutes{
		ProjectID:   projectID,
		RecordingID: recordingID,
		Name:        strings.TrimSpace(req.Name),
		Date:        *req.Date,
		Attendees:   req.Attendees,
		Summary:     req.Summary,
		Content:     req.Content,
		ActionItems: req.ActionItems,
		NextSync:    req.NextSync,
	}
	created, err := a.store.CreateMinutes(r.Context(), m)
	if err != nil {
		a.log.Error("create minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if recordingID != nil {
		if err := a.store.SetRecordingMinutesGenerated(r.Context(), *recordingID); err != nil {
			a.log.Error("mark minutes generated", "err", err)
		}
	}
	writeJSON(w, 201, created)
}

func (a *api) handleUpdateMinutes(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Meeting minutes not found")
		return
	}
	var upd MinutesUpdate
	if err := readJSON(w, r, &upd); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	if upd.Content != nil && strings.TrimSpace(*upd.Content) == "" {
		writeError(w, 400, "content cannot be empty")
		return
	}
	if upd.ActionItems != nil {
		for _, item := range *upd.ActionItems {
			if strings.TrimSpace(item.Description) == "" {
				writeError(w, 400, "action item description is required")
				return
			}
			if !validActionStatus(item.Status) {
				writeError(w, 400, "invalid action item status")
				return
			}
		}
	}
	m, err := a.store.UpdateMinutes(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Meeting minutes not found")
			return
		}
		a.log.Error("update minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, m)
}

func (a *api) handleDeleteMinutes(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Meeting minutes not found")
		return
	}
	if err := a.store.DeleteMinutes(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Meeting minutes not found")
			return
		}
		a.log.Error("delete minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Meeting minutes removed"})
}
