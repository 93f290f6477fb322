package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

func (a *api) handleStorageInitialize(w http.ResponseWriter, r *http.Request) {
	res, err := a.storage.Initialize(r.Context())
	if err != nil {
		a.log.Error("storage initialize", "err", err)
		writeError(w, http.StatusInternalServerError, "Error initializing storage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Storage initialized successfully",
		"storagePath":   res.StoragePath,
		"projectsCount": res.ProjectsCount,
	})
}

func (a *api) handleStorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.storage.Stats(r.Context())
	if err != nil {
		if errors.Is(err, ErrStorageNotInitialized) {
			writeError(w, http.StatusBadRequest, "Storage not initialized")
			return
		}
		a.log.Error("storage stats", "err", err)
		writeError(w, http.StatusInternalServerError, "Error getting storage stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *api) handleStorageProjectStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("projectId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	stats, err := a.storage.ProjectStats(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ErrStorageNotInitialized):
			writeError(w, http.StatusBadRequest, "Storage not initialized")
		default:
			a.log.Error("project storage stats", "id", id, "err", err)
			writeError(w, http.StatusInternalServerError, "Error getting storage stats")
		}
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *api) handleStorageExport(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("projectId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	info, err := a.storage.Export(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		a.log.Error("export project", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Error exporting project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Project exported successfully",
		"fileName":   info.FileName,
		"exportDate": info.ExportDate,
	})
}

func (a *api) handleStorageImport(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := readJSON(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// The documented body wraps the snapshot in importData; a bare snapshot
	// is accepted too.
	var wrapper struct {
		ImportData *BackupData `json:"importData"`
	}
	var data BackupData
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if wrapper.ImportData != nil {
		data = *wrapper.ImportData
	} else if err := json.Unmarshal(raw, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	summary, err := a.storage.Import(r.Context(), data)
	if err != nil {
		if errors.Is(err, ErrInvalidImport) {
			writeError(w, http.StatusBadRequest, "Import data must include a project")
			return
		}
		a.log.Error("import project", "err", err)
		writeError(w, http.StatusInternalServerError, "Error importing project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Project imported successfully",
		"project":         summary.Project,
		"recordingsCount": summary.RecordingsCount,
		"minutesCount":    summary.MinutesCount,
	})
}
