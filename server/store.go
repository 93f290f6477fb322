package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Store is the persistence surface. SQLStore is the Postgres implementation;
// tests substitute an in-memory one.
type Store interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (Project, error)
	ProjectByName(ctx context.Context, name string) (Project, error)
	CreateProject(ctx context.Context, p Project) (Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	ListRecordings(ctx context.Context) ([]Recording, error)
	RecordingsByProject(ctx context.Context, projectID uuid.UUID) ([]Recording, error)
	GetRecording(ctx context.Context, id uuid.UUID) (Recording, error)
	RecordingByZoomID(ctx context.Context, zoomID string) (Recording, error)
	CreateRecording(ctx context.Context, rec Recording) (Recording, error)
	UpdateRecording(ctx context.Context, id uuid.UUID, upd RecordingUpdate) (Recording, error)
	DeleteRecording(ctx context.Context, id uuid.UUID) error
	SetRecordingMinutesGenerated(ctx context.Context, id uuid.UUID) error

	ListMinutes(ctx context.Context) ([]Minutes, error)
	MinutesByProject(ctx context.Context, projectID uuid.UUID) ([]Minutes, error)
	GetMinutes(ctx context.Context, id uuid.UUID) (Minutes, error)
	PendingMinutes(ctx context.Context) ([]Minutes, error)
	CreateMinutes(ctx context.Context, m Minutes) (Minutes, error)
	UpdateMinutes(ctx context.Context, id uuid.UUID, upd MinutesUpdate) (Minutes, error)
	DeleteMinutes(ctx context.Context, id uuid.UUID) error
	MarkMinutesSent(ctx context.Context, id uuid.UUID) error

	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	ZoomSettings(ctx context.Context) (ZoomSettings, error)
	SaveZoomSettings(ctx context.Context, s ZoomSettings) error
	ClearZoomSettings(ctx context.Context) error
}

// Partial-update structs: only non-nil fields are applied.

type ProjectUpdate struct {
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	StartDate         *time.Time        `json:"startDate"`
	EndDate           *time.Time        `json:"endDate"`
	Status            *string           `json:"status"`
	Team              *[]TeamMember     `json:"team"`
	EmailDistribution *string           `json:"emailDistribution"`
	AutoDistribution  *AutoDistribution `json:"autoDistribution"`
}

type RecordingUpdate struct {
	Name             *string    `json:"name"`
	Date             *time.Time `json:"date"`
	Duration         *string    `json:"duration"`
	ZoomID           *string    `json:"zoomId"`
	URL              *string    `json:"url"`
	Size             *string    `json:"size"`
	Processed        *bool      `json:"processed"`
	MinutesGenerated *bool      `json:"minutesGenerated"`
}

type MinutesUpdate struct {
	Name        *string       `json:"name"`
	Date        *time.Time    `json:"date"`
	Attendees   *[]string     `json:"attendees"`
	Summary     *string       `json:"summary"`
	Content     *string       `json:"content"`
	ActionItems *[]ActionItem `json:"actionItems"`
	NextSync    *string       `json:"nextSync"`
	EmailSent   *bool         `json:"emailSent"`
}

type ZoomIntegrationUpdate struct {
	APIKey    *string `json:"apiKey"`
	APISecret *string `json:"apiSecret"`
	Connected *bool   `json:"connected"`
}

type UserUpdate struct {
	Name                 *string                `json:"name"`
	Email                *string                `json:"email"`
	Role                 *string                `json:"role"`
	Company              *string                `json:"company"`
	NotificationSettings *NotificationSettings  `json:"notificationSettings"`
	ZoomIntegration      *ZoomIntegrationUpdate `json:"zoomIntegration"`
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// --- Projects ---

const projectCols = `id, name, description, start_date, end_date, status, team, email_distribution, auto_distribution, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var team, auto []byte
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Status, &team, &p.EmailDistribution, &auto, &p.CreatedAt)
	if err != nil {
		return Project{}, err
	}
	if err := json.Unmarshal(team, &p.Team); err != nil {
		return Project{}, fmt.Errorf("decode team: %w", err)
	}
	if err := json.Unmarshal(auto, &p.AutoDistribution); err != nil {
		return Project{}, fmt.Errorf("decode auto_distribution: %w", err)
	}
	return p, nil
}

func (s *SQLStore) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `select `+projectCols+` from projects order by created_at desc, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) ProjectByName(ctx context.Context, name string) (Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where name=$1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) CreateProject(ctx context.Context, p Project) (Project, error) {
	applyProjectDefaults(&p)
	team, err := json.Marshal(p.Team)
	if err != nil {
		return Project{}, err
	}
	auto, err := json.Marshal(p.AutoDistribution)
	if err != nil {
		return Project{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`insert into projects(id, name, description, start_date, end_date, status, team, email_distribution, auto_distribution)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9) returning `+projectCols,
		p.ID, p.Name, p.Description, p.StartDate, p.EndDate, p.Status, team, p.EmailDistribution, auto)
	return scanProject(row)
}

// applyProjectDefaults fills identity and defaulted fields on a new project.
func applyProjectDefaults(p *Project) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().UTC()
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
	if p.Team == nil {
		p.Team = []TeamMember{}
	}
	if p.AutoDistribution.ScheduleType == "" {
		p.AutoDistribution.ScheduleType = "immediate"
	}
	if p.AutoDistribution.Time == "" {
		p.AutoDistribution.Time = "09:00"
	}
}

func (s *SQLStore) UpdateProject(ctx context.Context, id uuid.UUID, upd ProjectUpdate) (Project, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		add("end_date", *upd.EndDate)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Team != nil {
		b, err := json.Marshal(*upd.Team)
		if err != nil {
			return Project{}, err
		}
		add("team", b)
	}
	if upd.EmailDistribution != nil {
		add("email_distribution", *upd.EmailDistribution)
	}
	if upd.AutoDistribution != nil {
		b, err := json.Marshal(*upd.AutoDistribution)
		if err != nil {
			return Project{}, err
		}
		add("auto_distribution", b)
	}
	if len(set) == 0 {
		return s.GetProject(ctx, id)
	}
	q := fmt.Sprintf("update projects set %s where id=$%d returning %s", joinComma(set), idx, projectCols)
	args = append(args, id)
	p, err := scanProject(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `delete from projects where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Recordings ---

const recordingCols = `id, project_id, name, date, duration, zoom_id, url, size, processed, minutes_generated, created_at`

func scanRecording(row rowScanner) (Recording, error) {
	var rec Recording
	err := row.Scan(&rec.ID, &rec.ProjectID, &rec.Name, &rec.Date, &rec.Duration, &rec.ZoomID, &rec.URL, &rec.Size, &rec.Processed, &rec.MinutesGenerated, &rec.CreatedAt)
	return rec, err
}

func (s *SQLStore) ListRecordings(ctx context.Context) ([]Recording, error) {
	return s.queryRecordings(ctx, `select `+recordingCols+` from recordings order by date desc, id`)
}

func (s *SQLStore) RecordingsByProject(ctx context.Context, projectID uuid.UUID) ([]Recording, error) {
	return s.queryRecordings(ctx, `select `+recordingCols+` from recordings where project_id=$1 order by date desc, id`, projectID)
}

func (s *SQLStore) queryRecordings(ctx context.Context, q string, args ...any) ([]Recording, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetRecording(ctx context.Context, id uuid.UUID) (Recording, error) {
	rec, err := scanRecording(s.db.QueryRowContext(ctx, `select `+recordingCols+` from recordings where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Recording{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) RecordingByZoomID(ctx context.Context, zoomID string) (Recording, error) {
	rec, err := scanRecording(s.db.QueryRowContext(ctx, `select `+recordingCols+` from recordings where zoom_id=$1 and zoom_id<>''`, zoomID))
	if errors.Is(err, sql.ErrNoRows) {
		return Recording{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) CreateRecording(ctx context.Context, rec Recording) (Recording, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	row := s.db.QueryRowContext(ctx,
		`insert into recordings(id, project_id, name, date, duration, zoom_id, url, size, processed, minutes_generated)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) returning `+recordingCols,
		rec.ID, rec.ProjectID, rec.Name, rec.Date, rec.Duration, rec.ZoomID, rec.URL, rec.Size, rec.Processed, rec.MinutesGenerated)
	return scanRecording(row)
}

func (s *SQLStore) UpdateRecording(ctx context.Context, id uuid.UUID, upd RecordingUpdate) (Recording, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Duration != nil {
		add("duration", *upd.Duration)
	}
	if upd.ZoomID != nil {
		add("zoom_id", *upd.ZoomID)
	}
	if upd.URL != nil {
		add("url", *upd.URL)
	}
	if upd.Size != nil {
		add("size", *upd.Size)
	}
	if upd.Processed != nil {
		add("processed", *upd.Processed)
	}
	if upd.MinutesGenerated != nil {
		add("minutes_generated", *upd.MinutesGenerated)
	}
	if len(set) == 0 {
		return s.GetRecording(ctx, id)
	}
	q := fmt.Sprintf("update recordings set %s where id=$%d returning %s", joinComma(set), idx, recordingCols)
	args = append(args, id)
	rec, err := scanRecording(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Recording{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLStore) DeleteRecording(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `delete from recordings where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetRecordingMinutesGenerated(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `update recordings set minutes_generated=true where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Minutes ---

const minutesCols = `id, project_id, recording_id, name, date, attendees, summary, content, action_items, next_sync, email_sent, created_at`

func scanMinutes(row rowScanner) (Minutes, error) {
	var m Minutes
	var attendees, items []byte
	err := row.Scan(&m.ID, &m.ProjectID, &m.RecordingID, &m.Name, &m.Date, &attendees, &m.Summary, &m.Content, &items, &m.NextSync, &m.EmailSent, &m.CreatedAt)
	if err != nil {
		return Minutes{}, err
	}
	if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
		return Minutes{}, fmt.Errorf("decode attendees: %w", err)
	}
	if err := json.Unmarshal(items, &m.ActionItems); err != nil {
		return Minutes{}, fmt.Errorf("decode action_items: %w", err)
	}
	return m, nil
}

func (s *SQLStore) ListMinutes(ctx context.Context) ([]Minutes, error) {
	return s.queryMinutes(ctx, `select `+minutesCols+` from minutes order by date desc, id`)
}

func (s *SQLStore) MinutesByProject(ctx context.Context, projectID uuid.UUID) ([]Minutes, error) {
	return s.queryMinutes(ctx, `select `+minutesCols+` from minutes where project_id=$1 order by date desc, id`, projectID)
}

func (s *SQLStore) PendingMinutes(ctx context.Context) ([]Minutes, error) {
	return s.queryMinutes(ctx, `select `+minutesCols+` from minutes where email_sent=false order by date desc, id`)
}

func (s *SQLStore) queryMinutes(ctx context.Context, q string, args ...any) ([]Minutes, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Minutes
	for rows.Next() {
		m, err := scanMinutes(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetMinutes(ctx context.Context, id uuid.UUID) (Minutes, error) {
	m, err := scanMinutes(s.db.QueryRowContext(ctx, `select `+minutesCols+` from minutes where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Minutes{}, ErrNotFound
	}
	return m, err
}

func (s *SQLStore) CreateMinutes(ctx context.Context, m Minutes) (Minutes, error) {
	applyMinutesDefaults(&m)
	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return Minutes{}, err
	}
	items, err := json.Marshal(m.ActionItems)
	if err != nil {
		return Minutes{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`insert into minutes(id, project_id, recording_id, name, date, attendees, summary, content, action_items, next_sync, email_sent)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) returning `+minutesCols,
		m.ID, m.ProjectID, m.RecordingID, m.Name, m.Date, attendees, m.Summary, m.Content, items, m.NextSync, m.EmailSent)
	return scanMinutes(row)
}

func applyMinutesDefaults(m *Minutes) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Attendees == nil {
		m.Attendees = []string{}
	}
	if m.ActionItems == nil {
		m.ActionItems = []ActionItem{}
	}
	for i := range m.ActionItems {
		if m.ActionItems[i].Status == "" {
			m.ActionItems[i].Status = ActionOpen
		}
	}
}

func (s *SQLStore) UpdateMinutes(ctx context.Context, id uuid.UUID, upd MinutesUpdate) (Minutes, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Attendees != nil {
		b, err := json.Marshal(*upd.Attendees)
		if err != nil {
			return Minutes{}, err
		}
		add("attendees", b)
	}
	if upd.Summary != nil {
		add("summary", *upd.Summary)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.ActionItems != nil {
		b, err := json.Marshal(*upd.ActionItems)
		if err != nil {
			return Minutes{}, err
		}
		add("action_items", b)
	}
	if upd.NextSync != nil {
		add("next_sync", *upd.NextSync)
	}
	if upd.EmailSent != nil {
		add("email_sent", *upd.EmailSent)
	}
	if len(set) == 0 {
		return s.GetMinutes(ctx, id)
	}
	q := fmt.Sprintf("update minutes set %s where id=$%d returning %s", joinComma(set), idx, minutesCols)
	args = append(args, id)
	m, err := scanMinutes(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Minutes{}, ErrNotFound
	}
	return m, err
}

func (s *SQLStore) DeleteMinutes(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `delete from minutes where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) MarkMinutesSent(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `update minutes set email_sent=true where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

const userCols = `id, name, email, role, company, notification_settings, zoom_integration, created_at`

func scanUser(row rowScanner) (User, error) {
	var u User
	var notif, zoom []byte
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Company, &notif, &zoom, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	if err := json.Unmarshal(notif, &u.NotificationSettings); err != nil {
		return User{}, fmt.Errorf("decode notification_settings: %w", err)
	}
	if err := json.Unmarshal(zoom, &u.ZoomIntegration); err != nil {
		return User{}, fmt.Errorf("decode zoom_integration: %w", err)
	}
	return u, nil
}

// scrubUser clears write-only credential material before a user leaves the store.
func scrubUser(u User) User {
	u.ZoomIntegration.APISecret = ""
	return u
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `select `+userCols+` from users order by created_at desc, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scrubUser(u))
	}
	return out, rows.Err()
}

func (s *SQLStore) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.userRaw(ctx, id)
	if err != nil {
		return User{}, err
	}
	return scrubUser(u), nil
}

func (s *SQLStore) userRaw(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `select `+userCols+` from users where lower(email)=lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return scrubUser(u), err
}

func (s *SQLStore) CreateUser(ctx context.Context, u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleTeamMember
	}
	notif, err := json.Marshal(u.NotificationSettings)
	if err != nil {
		return User{}, err
	}
	zoom, err := json.Marshal(u.ZoomIntegration)
	if err != nil {
		return User{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`insert into users(id, name, email, role, company, notification_settings, zoom_integration)
		 values($1,$2,$3,$4,$5,$6,$7) returning `+userCols,
		u.ID, u.Name, u.Email, u.Role, u.Company, notif, zoom)
	created, err := scanUser(row)
	if err != nil {
		return User{}, err
	}
	return scrubUser(created), nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (User, error) {
	// Zoom credentials merge into the stored record, so read first.
	cur, err := s.userRaw(ctx, id)
	if err != nil {
		return User{}, err
	}
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.Company != nil {
		add("company", *upd.Company)
	}
	if upd.NotificationSettings != nil {
		b, err := json.Marshal(*upd.NotificationSettings)
		if err != nil {
			return User{}, err
		}
		add("notification_settings", b)
	}
	if upd.ZoomIntegration != nil {
		zi := cur.ZoomIntegration
		if upd.ZoomIntegration.APIKey != nil {
			zi.APIKey = *upd.ZoomIntegration.APIKey
		}
		if upd.ZoomIntegration.APISecret != nil {
			zi.APISecret = *upd.ZoomIntegration.APISecret
		}
		if upd.ZoomIntegration.Connected != nil {
			zi.Connected = *upd.ZoomIntegration.Connected
		}
		b, err := json.Marshal(zi)
		if err != nil {
			return User{}, err
		}
		add("zoom_integration", b)
	}
	if len(set) == 0 {
		return scrubUser(cur), nil
	}
	q := fmt.Sprintf("update users set %s where id=$%d returning %s", joinComma(set), idx, userCols)
	args = append(args, id)
	u, err := scanUser(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return scrubUser(u), nil
}

func (s *SQLStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Zoom settings (single global row) ---

func (s *SQLStore) ZoomSettings(ctx context.Context) (ZoomSettings, error) {
	var zs ZoomSettings
	err := s.db.QueryRowContext(ctx, `select api_key, api_secret, account_id, updated_at from zoom_settings where id=1`).
		Scan(&zs.APIKey, &zs.APISecret, &zs.AccountID, &zs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ZoomSettings{}, ErrNotFound
	}
	return zs, err
}

func (s *SQLStore) SaveZoomSettings(ctx context.Context, zs ZoomSettings) error {
	_, err := s.db.ExecContext(ctx,
		`insert into zoom_settings(id, api_key, api_secret, account_id, updated_at) values(1,$1,$2,$3,now())
		 on conflict (id) do update set api_key=excluded.api_key, api_secret=excluded.api_secret, account_id=excluded.account_id, updated_at=now()`,
		zs.APIKey, zs.APISecret, zs.AccountID)
	return err
}

func (s *SQLStore) ClearZoomSettings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `delete from zoom_settings where id=1`)
	return err
}

func joinComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += ", " + parts[i]
	}
	return out
}

const schema = `
create table if not exists projects(
    id uuid primary key,
    name text not null check (length(name) > 0),
    description text not null default '',
    start_date timestamptz not null default now(),
    end_date timestamptz,
    status text not null default 'Not Started',
    team jsonb not null default '[]',
    email_distribution text not null default '',
    auto_distribution jsonb not null default '{"enabled":false,"scheduleType":"immediate","time":"09:00"}',
    created_at timestamptz not null default now()
);

create table if not exists recordings(
    id uuid primary key,
    project_id uuid not null references projects(id) on delete cascade,
    name text not null check (length(name) > 0),
    date timestamptz not null default now(),
    duration text not null default '',
    zoom_id text not null default '',
    url text not null default '',
    size text not null default '',
    processed boolean not null default false,
    minutes_generated boolean not null default false,
    created_at timestamptz not null default now()
);
create index if not exists recordings_project_idx on recordings(project_id);
create index if not exists recordings_zoom_idx on recordings(zoom_id) where zoom_id <> '';

create table if not exists minutes(
    id uuid primary key,
    project_id uuid not null references projects(id) on delete cascade,
    recording_id uuid references recordings(id) on delete set null,
    name text not null check (length(name) > 0),
    date timestamptz not null,
    attendees jsonb not null default '[]',
    summary text not null default '',
    content text not null,
    action_items jsonb not null default '[]',
    next_sync text not null default '',
    email_sent boolean not null default false,
    created_at timestamptz not null default now()
);
create index if not exists minutes_project_idx on minutes(project_id);
create index if not exists minutes_pending_idx on minutes(email_sent) where email_sent = false;

create table if not exists users(
    id uuid primary key,
    name text not null,
    email text unique not null,
    role text not null default 'team_member',
    company text not null default '',
    notification_settings jsonb not null default '{"emailNotifications":true,"distributionReports":false}',
    zoom_integration jsonb not null default '{"connected":false}',
    created_at timestamptz not null default now()
);

create table if not exists zoom_settings(
    id int primary key check (id = 1),
    api_key text not null,
    api_secret text not null,
    account_id text not null,
    updated_at timestamptz not null default now()
);
`
