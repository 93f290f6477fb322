package main

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

func (a *api) handleZoomStatus(w http.ResponseWriter, r *http.Request) {
	zs, err := a.store.ZoomSettings(r.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, 200, map[string]any{"connected": false})
			return
		}
		a.log.Error("zoom settings", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"connected": true, "accountId": zs.AccountID})
}

func (a *api) handleZoomConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey    string `json:"apiKey"`
		APISecret string `json:"apiSecret"`
		AccountID string `json:"accountId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" || strings.TrimSpace(req.APISecret) == "" || strings.TrimSpace(req.AccountID) == "" {
		writeError(w, 400, "apiKey, apiSecret and accountId are required")
		return
	}
	creds := zoomCredentials{APIKey: req.APIKey, APISecret: req.APISecret, AccountID: req.AccountID}
	if err := a.zoom.Verify(r.Context(), creds); err != nil {
		a.log.Error("verify zoom credentials", "err", err)
		writeJSON(w, 400, map[string]any{"success": false, "message": "Invalid Zoom credentials", "error": err.Error()})
		return
	}
	zs := ZoomSettings{APIKey: req.APIKey, APISecret: req.APISecret, AccountID: req.AccountID}
	if err := a.store.SaveZoomSettings(r.Context(), zs); err != nil {
		a.log.Error("save zoom settings", "err", err)
		writeError(w, 500, "Error connecting to Zoom")
		return
	}
	writeJSON(w, 200, map[string]any{"success": true, "message": "Zoom credentials saved successfully"})
}

func (a *api) handleZoomDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := a.store.ClearZoomSettings(r.Context()); err != nil {
		a.log.Error("clear zoom settings", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"success": true, "message": "Zoom account disconnected"})
}

func (a *api) handleZoomRecordings(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	}
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	list, err := a.zoom.AccountRecordings(r.Context(), from, to)
	if err != nil {
		a.writeZoomError(w, "Error fetching Zoom recordings", err)
		return
	}
	writeJSON(w, 200, list)
}

func (a *api) handleZoomMeetingRecordings(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("meetingId")
	if meetingID == "" {
		writeError(w, 400, "meetingId is required")
		return
	}
	m, err := a.zoom.MeetingRecordings(r.Context(), meetingID)
	if err != nil {
		a.writeZoomError(w, "Error fetching Zoom recordings", err)
		return
	}
	writeJSON(w, 200, m)
}

func (a *api) handleZoomImport(w http.ResponseWriter, r *http.Request) {
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
	var req struct {
		Recordings []zoomMeeting `json:"recordings"`
		MeetingIDs []string      `json:"meetingIds"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if len(req.Recordings) == 0 && len(req.MeetingIDs) == 0 {
		writeError(w, 400, "recordings or meetingIds required")
		return
	}
	meetings := req.Recordings
	var fetchFailures []ImportDetail
	// Per-identifier fetch failures (bad credentials, meeting not found) are
	// recorded and the loop moves on.
	for _, meetingID := range req.MeetingIDs {
		m, err := a.zoom.MeetingRecordings(r.Context(), meetingID)
		if err != nil {
			a.log.Error("fetch zoom meeting", "meeting_id", meetingID, "err", err)
			fetchFailures = append(fetchFailures, ImportDetail{ZoomID: meetingID, Status: "failed", Error: err.Error()})
			continue
		}
		meetings = append(meetings, m)
	}
	res := importMeetings(r.Context(), a.store, projectID, meetings)
	res.Total += len(fetchFailures)
	res.Failed += len(fetchFailures)
	res.Details = append(res.Details, fetchFailures...)
	writeJSON(w, 200, res)
}

// writeZoomError maps upstream failures: missing credentials and explicit
// Zoom API rejections surface as 400 with detail, the rest as 500.
func (a *api) writeZoomError(w http.ResponseWriter, msg string, err error) {
	var apiErr *zoomAPIError
	switch {
	case errors.Is(err, ErrZoomNotConnected):
		writeError(w, 400, "Zoom credentials not configured")
	case errors.As(err, &apiErr):
		writeJSON(w, 400, map[string]any{"message": msg, "error": apiErr.Error()})
	default:
		a.log.Error("zoom api", "err", err)
		writeJSON(w, 500, map[string]any{"message": msg, "error": err.Error()})
	}
}
