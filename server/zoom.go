package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var ErrZoomNotConnected = errors.New("zoom credentials not configured")

type zoomCredentials struct {
	APIKey    string
	APISecret string
	AccountID string
}

// credentialSource makes the importer's credential lookup explicit and
// injectable. The production source reads the single settings row.
type credentialSource func(ctx context.Context) (zoomCredentials, error)

func storeCredentials(store Store) credentialSource {
	return func(ctx context.Context) (zoomCredentials, error) {
		zs, err := store.ZoomSettings(ctx)
		if errors.Is(err, ErrNotFound) {
			return zoomCredentials{}, ErrZoomNotConnected
		}
		if err != nil {
			return zoomCredentials{}, err
		}
		return zoomCredentials{APIKey: zs.APIKey, APISecret: zs.APISecret, AccountID: zs.AccountID}, nil
	}
}

// zoomAPIError carries the upstream status and body for error responses.
type zoomAPIError struct {
	Status int
	Body   string
}

func (e *zoomAPIError) Error() string {
	return fmt.Sprintf("zoom api: status %d: %s", e.Status, e.Body)
}

type zoomClient struct {
	httpClient *http.Client
	authURL    string
	apiURL     string
	creds      credentialSource
}

func newZoomClient(creds credentialSource) *zoomClient {
	return &zoomClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		authURL:    "https://zoom.us/oauth/token",
		apiURL:     "https://api.zoom.us/v2",
		creds:      creds,
	}
}

// zoomMeeting is one recorded meeting as returned by the Zoom API. Duration
// is in seconds; TotalSize in bytes.
type zoomMeeting struct {
	UUID      string    `json:"uuid"`
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	StartTime time.Time `json:"start_time"`
	Duration  int       `json:"duration"`
	TotalSize int64     `json:"total_size"`
	ShareURL  string    `json:"share_url"`
}

type zoomRecordingList struct {
	From     string        `json:"from,omitempty"`
	To       string        `json:"to,omitempty"`
	Meetings []zoomMeeting `json:"meetings"`
}

func (c *zoomClient) tokenFor(ctx context.Context, creds zoomCredentials) (string, error) {
	u := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s", c.authURL, url.QueryEscape(creds.AccountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(creds.APIKey + ":" + creds.APISecret))
	req.Header.Set("Authorization", "Basic "+basic)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("zoom token request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", &zoomAPIError{Status: resp.StatusCode, Body: string(body)}
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode zoom token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", &zoomAPIError{Status: resp.StatusCode, Body: "empty access token"}
	}
	return tok.AccessToken, nil
}

func (c *zoomClient) token(ctx context.Context) (string, error) {
	creds, err := c.creds(ctx)
	if err != nil {
		return "", err
	}
	return c.tokenFor(ctx, creds)
}

// Verify checks a credential set by performing a token fetch with it.
func (c *zoomClient) Verify(ctx context.Context, creds zoomCredentials) error {
	_, err := c.tokenFor(ctx, creds)
	return err
}

func (c *zoomClient) get(ctx context.Context, path string, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zoom api request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode != http.StatusOK {
		return &zoomAPIError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode zoom response: %w", err)
	}
	return nil
}

// MeetingRecordings fetches the recording set for one meeting identifier.
func (c *zoomClient) MeetingRecordings(ctx context.Context, meetingID string) (zoomMeeting, error) {
	var m zoomMeeting
	err := c.get(ctx, "/meetings/"+url.PathEscape(meetingID)+"/recordings", &m)
	return m, err
}

// AccountRecordings fetches account-wide cloud recordings for a date range
// (YYYY-MM-DD, inclusive).
func (c *zoomClient) AccountRecordings(ctx context.Context, from, to string) (zoomRecordingList, error) {
	var list zoomRecordingList
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	path := "/users/me/recordings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	err := c.get(ctx, path, &list)
	return list, err
}

// --- import ---

type ImportDetail struct {
	ZoomID string `json:"zoomId,omitempty"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"` // imported, exists, failed
	Error  string `json:"error,omitempty"`
}

type ImportResult struct {
	Total      int            `json:"total"`
	Imported   int            `json:"imported"`
	Existing   int            `json:"existing"`
	Failed     int            `json:"failed"`
	Recordings []Recording    `json:"recordings"`
	Details    []ImportDetail `json:"details"`
}

func mapZoomRecording(projectID uuid.UUID, m zoomMeeting) Recording {
	return Recording{
		ProjectID: projectID,
		Name:      m.Topic,
		Date:      m.StartTime,
		Duration:  formatZoomDuration(m.Duration),
		ZoomID:    m.UUID,
		URL:       m.ShareURL,
		Size:      formatZoomSize(m.TotalSize),
	}
}

func formatZoomDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatZoomSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
}

// importMeetings persists each meeting as a Recording, reusing any Recording
// that already carries the same Zoom identifier. Per-item failures never
// abort the batch.
func importMeetings(ctx context.Context, store Store, projectID uuid.UUID, meetings []zoomMeeting) ImportResult {
	res := ImportResult{Total: len(meetings), Recordings: []Recording{}, Details: []ImportDetail{}}
	for _, m := range meetings {
		if m.Topic == "" {
			res.Failed++
			res.Details = append(res.Details, ImportDetail{ZoomID: m.UUID, Status: "failed", Error: "recording has no topic"})
			continue
		}
		if m.UUID != "" {
			existing, err := store.RecordingByZoomID(ctx, m.UUID)
			if err == nil {
				res.Existing++
				res.Recordings = append(res.Recordings, existing)
				res.Details = append(res.Details, ImportDetail{ZoomID: m.UUID, Name: existing.Name, Status: "exists"})
				continue
			}
			if !errors.Is(err, ErrNotFound) {
				res.Failed++
				res.Details = append(res.Details, ImportDetail{ZoomID: m.UUID, Name: m.Topic, Status: "failed", Error: err.Error()})
				continue
			}
		}
		created, err := store.CreateRecording(ctx, mapZoomRecording(projectID, m))
		if err != nil {
			res.Failed++
			res.Details = append(res.Details, ImportDetail{ZoomID: m.UUID, Name: m.Topic, Status: "failed", Error: err.Error()})
			continue
		}
		res.Imported++
		res.Recordings = append(res.Recordings, created)
		res.Details = append(res.Details, ImportDetail{ZoomID: m.UUID, Name: created.Name, Status: "imported"})
	}
	return res
}
