package main

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// memStore is the in-memory Store used by the handler and engine tests. It
// mirrors the SQLStore's defaulting and cascade behavior.
type memStore struct {
	projects   map[uuid.UUID]Project
	recordings map[uuid.UUID]Recording
	minutes    map[uuid.UUID]Minutes
	users      map[uuid.UUID]User
	zoom       *ZoomSettings
}

func newMemStore() *memStore {
	return &memStore{
		projects:   map[uuid.UUID]Project{},
		recordings: map[uuid.UUID]Recording{},
		minutes:    map[uuid.UUID]Minutes{},
		users:      map[uuid.UUID]User{},
	}
}

func (s *memStore) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (s *memStore) ProjectByName(ctx context.Context, name string) (Project, error) {
	for _, p := range s.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

func (s *memStore) CreateProject(ctx context.Context, p Project) (Project, error) {
	applyProjectDefaults(&p)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.projects[p.ID] = p
	return p, nil
}

func (s *memStore) UpdateProject(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.StartDate != nil {
		p.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		p.EndDate = upd.EndDate
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Team != nil {
		p.Team = *upd.Team
	}
	if upd.EmailDistribution != nil {
		p.EmailDistribution = *upd.EmailDistribution
	}
	if upd.AutoDistribution != nil {
		p.AutoDistribution = *upd.AutoDistribution
	}
	s.projects[id] = p
	return p, nil
}

func (s *memStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	for rid, rec := range s.recordings {
		if rec.ProjectID == id {
			delete(s.recordings, rid)
		}
	}
	for mid, m := range s.minutes {
		if m.ProjectID == id {
			delete(s.minutes, mid)
		}
	}
	return nil
}

func (s *memStore) ListRecordings(ctx context.Context) ([]Recording, error) {
	var out []Recording
	for _, rec := range s.recordings {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) RecordingsByProject(ctx context.Context, projectID uuid.UUID) ([]Recording, error) {
	var out []Recording
	for _, rec := range s.recordings {
		if rec.ProjectID == projectID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) GetRecording(ctx context.Context, id uuid.UUID) (Recording, error) {
	rec, ok := s.recordings[id]
	if !ok {
		return Recording{}, ErrNotFound
	}
	return rec, nil
}

func (s *memStore) RecordingByZoomID(ctx context.Context, zoomID string) (Recording, error) {
	for _, rec := range s.recordings {
		if rec.ZoomID == zoomID {
			return rec, nil
		}
	}
	return Recording{}, ErrNotFound
}

func (s *memStore) CreateRecording(ctx context.Context, rec Recording) (Recording, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.recordings[rec.ID] = rec
	return rec, nil
}

func (s *memStore) UpdateRecording(ctx context.Context, id uuid.UUID, upd RecordingUpdate) (Recording, error) {
	rec, ok := s.recordings[id]
	if !ok {
		return Recording{}, ErrNotFound
	}
	if upd.Name != nil {
		rec.Name = *upd.Name
	}
	if upd.Date != nil {
		rec.Date = *upd.Date
	}
	if upd.Duration != nil {
		rec.Duration = *upd.Duration
	}
	if upd.ZoomID != nil {
		rec.ZoomID = *upd.ZoomID
	}
	if upd.URL != nil {
		rec.URL = *upd.URL
	}
	if upd.Size != nil {
		rec.Size = *upd.Size
	}
	if upd.Processed != nil {
		rec.Processed = *upd.Processed
	}
	if upd.MinutesGenerated != nil {
		rec.MinutesGenerated = *upd.MinutesGenerated
	}
	s.recordings[id] = rec
	return rec, nil
}

func (s *memStore) DeleteRecording(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.recordings[id]; !ok {
		return ErrNotFound
	}
	delete(s.recordings, id)
	for mid, m := range s.minutes {
		if m.RecordingID != nil && *m.RecordingID == id {
			m.RecordingID = nil
			s.minutes[mid] = m
		}
	}
	return nil
}

func (s *memStore) SetRecordingMinutesGenerated(ctx context.Context, id uuid.UUID) error {
	rec, ok := s.recordings[id]
	if !ok {
		return ErrNotFound
	}
	rec.MinutesGenerated = true
	s.recordings[id] = rec
	return nil
}

func (s *memStore) ListMinutes(ctx context.Context) ([]Minutes, error) {
	var out []Minutes
	for _, m := range s.minutes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) MinutesByProject(ctx context.Context, projectID uuid.UUID) ([]Minutes, error) {
	var out []Minutes
	for _, m := range s.minutes {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) GetMinutes(ctx context.Context, id uuid.UUID) (Minutes, error) {
	m, ok := s.minutes[id]
	if !ok {
		return Minutes{}, ErrNotFound
	}
	return m, nil
}

func (s *memStore) PendingMinutes(ctx context.Context) ([]Minutes, error) {
	var out []Minutes
	for _, m := range s.minutes {
		if !m.EmailSent {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memStore) CreateMinutes(ctx context.Context, m Minutes) (Minutes, error) {
	applyMinutesDefaults(&m)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.minutes[m.ID] = m
	return m, nil
}

func (s *memStore) UpdateMinutes(ctx context.Context, id uuid.UUID, upd MinutesUpdate) (Minutes, error) {
	m, ok := s.minutes[id]
	if !ok {
		return Minutes{}, ErrNotFound
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.Attendees != nil {
		m.Attendees = *upd.Attendees
	}
	if upd.Summary != nil {
		m.Summary = *upd.Summary
	}
	if upd.Content != nil {
		m.Content = *upd.Content
	}
	if upd.ActionItems != nil {
		m.ActionItems = *upd.ActionItems
	}
	if upd.NextSync != nil {
		m.NextSync = *upd.NextSync
	}
	if upd.EmailSent != nil {
		m.EmailSent = *upd.EmailSent
	}
	s.minutes[id] = m
	return m, nil
}

func (s *memStore) DeleteMinutes(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.minutes[id]; !ok {
		return ErrNotFound
	}
	delete(s.minutes, id)
	return nil
}

func (s *memStore) MarkMinutesSent(ctx context.Context, id uuid.UUID) error {
	m, ok := s.minutes[id]
	if !ok {
		return ErrNotFound
	}
	m.EmailSent = true
	s.minutes[id] = m
	return nil
}

func (s *memStore) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range s.users {
		out = append(out, scrubUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return scrubUser(u), nil
}

func (s *memStore) UserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return scrubUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (s *memStore) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleTeamMember
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	return scrubUser(u), nil
}

func (s *memStore) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Company != nil {
		u.Company = *upd.Company
	}
	if upd.NotificationSettings != nil {
		u.NotificationSettings = *upd.NotificationSettings
	}
	if upd.ZoomIntegration != nil {
		if upd.ZoomIntegration.APIKey != nil {
			u.ZoomIntegration.APIKey = *upd.ZoomIntegration.APIKey
		}
		if upd.ZoomIntegration.APISecret != nil {
			u.ZoomIntegration.APISecret = *upd.ZoomIntegration.APISecret
		}
		if upd.ZoomIntegration.Connected != nil {
			u.ZoomIntegration.Connected = *upd.ZoomIntegration.Connected
		}
	}
	s.users[id] = u
	return scrubUser(u), nil
}

func (s *memStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) ZoomSettings(ctx context.Context) (ZoomSettings, error) {
	if s.zoom == nil {
		return ZoomSettings{}, ErrNotFound
	}
	return *s.zoom, nil
}

func (s *memStore) SaveZoomSettings(ctx context.Context, zs ZoomSettings) error {
	zs.UpdatedAt = time.Now().UTC()
	s.zoom = &zs
	return nil
}

func (s *memStore) ClearZoomSettings(ctx context.Context) error {
	s.zoom = nil
	return nil
}

var _ Store = (*memStore)(nil)
