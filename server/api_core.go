package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type api struct {
	store   Store
	log     *slog.Logger
	dist    *distributor
	zoom    *zoomClient
	storage *storageManager
}

func newAPI(store Store, log *slog.Logger, dist *distributor, zoom *zoomClient, storage *storageManager) *api {
	return &api{store: store, log: log, dist: dist, zoom: zoom, storage: storage}
}

func (a *api) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", a.handleHealth)

	mux.HandleFunc("GET /api/projects", a.handleListProjects)
	mux.HandleFunc("POST /api/projects", a.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", a.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", a.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", a.handleDeleteProject)

	mux.HandleFunc("GET /api/recordings", a.handleListRecordings)
	mux.HandleFunc("POST /api/recordings", a.handleCreateRecording)
	mux.HandleFunc("GET /api/recordings/project/{projectId}", a.handleRecordingsByProject)
	mux.HandleFunc("GET /api/recordings/{id}", a.handleGetRecording)
	mux.HandleFunc("PUT /api/recordings/{id}", a.handleUpdateRecording)
	mux.HandleFunc("DELETE /api/recordings/{id}", a.handleDeleteRecording)

	mux.HandleFunc("GET /api/minutes", a.handleListMinutes)
	mux.HandleFunc("POST /api/minutes", a.handleCreateMinutes)
	mux.HandleFunc("GET /api/minutes/project/{projectId}", a.handleMinutesByProject)
	mux.HandleFunc("GET /api/minutes/{id}", a.handleGetMinutes)
	mux.HandleFunc("PUT /api/minutes/{id}", a.handleUpdateMinutes)
	mux.HandleFunc("DELETE /api/minutes/{id}", a.handleDeleteMinutes)

	mux.HandleFunc("GET /api/users", a.handleListUsers)
	mux.HandleFunc("POST /api/users", a.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", a.handleGetUser)
	mux.HandleFunc("PUT /api/users/{id}", a.handleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", a.handleDeleteUser)

	mux.HandleFunc("GET /api/distribution/project/{projectId}", a.handleGetDistributionSettings)
	mux.HandleFunc("PUT /api/distribution/project/{projectId}", a.handleUpdateDistributionSettings)
	mux.HandleFunc("GET /api/distribution/pending", a.handlePendingMinutes)
	mux.HandleFunc("POST /api/distribution/send", a.handleSendMinutes)
	mux.HandleFunc("POST /api/distribution/process-all", a.handleProcessAllPending)

	mux.HandleFunc("GET /api/zoom/status", a.handleZoomStatus)
	mux.HandleFunc("POST /api/zoom/connect", a.handleZoomConnect)
	mux.HandleFunc("POST /api/zoom/disconnect", a.handleZoomDisconnect)
	mux.HandleFunc("GET /api/zoom/recordings", a.handleZoomRecordings)
	mux.HandleFunc("GET /api/zoom/recordings/meeting/{meetingId}", a.handleZoomMeetingRecordings)
	mux.HandleFunc("POST /api/zoom/recordings/import/{projectId}", a.handleZoomImport)

	mux.HandleFunc("POST /api/storage/initialize", a.handleStorageInitialize)
	mux.HandleFunc("GET /api/storage/stats", a.handleStorageStats)
	mux.HandleFunc("GET /api/storage/stats/{projectId}", a.handleStorageProjectStats)
	mux.HandleFunc("GET /api/storage/export/{projectId}", a.handleStorageExport)
	mux.HandleFunc("POST /api/storage/import", a.handleStorageImport)
}

// parseEntityID resolves a path identifier. A malformed identifier behaves
// like a missing entity, so callers treat the error as NotFound.
func parseEntityID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrNotFound
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, r.Body)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"message": msg})
}

func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Info("http", "method", r.Method, "path", r.URL.Path, "status", sw.status, "dur_ms", time.Since(start).Milliseconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
