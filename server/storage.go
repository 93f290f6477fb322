package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStorageNotInitialized = errors.New("storage not initialized")
	ErrInvalidImport         = errors.New("invalid import data")
)

// storageManager maintains the on-disk mirror of projects and handles
// whole-project JSON snapshots.
type storageManager struct {
	root  string
	store Store
}

func newStorageManager(root string, store Store) *storageManager {
	return &storageManager{root: root, store: store}
}

func (sm *storageManager) projectsDir() string { return filepath.Join(sm.root, "projects") }
func (sm *storageManager) backupsDir() string  { return filepath.Join(sm.root, "backups") }

type InitResult struct {
	StoragePath   string `json:"storagePath"`
	ProjectsCount int    `json:"projectsCount"`
}

// Initialize creates the directory tree: a recordings and minutes
// subdirectory per project, plus the backups directory.
func (sm *storageManager) Initialize(ctx context.Context) (InitResult, error) {
	for _, dir := range []string{sm.root, sm.projectsDir(), sm.backupsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return InitResult{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	projects, err := sm.store.ListProjects(ctx)
	if err != nil {
		return InitResult{}, err
	}
	for _, p := range projects {
		if err := sm.ensureProjectDirs(p.ID); err != nil {
			return InitResult{}, err
		}
	}
	return InitResult{StoragePath: sm.root, ProjectsCount: len(projects)}, nil
}

func (sm *storageManager) ensureProjectDirs(projectID uuid.UUID) error {
	base := filepath.Join(sm.projectsDir(), projectID.String())
	for _, dir := range []string{base, filepath.Join(base, "recordings"), filepath.Join(base, "minutes")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

type ProjectStorageStats struct {
	ProjectID       uuid.UUID `json:"projectId"`
	ProjectName     string    `json:"projectName"`
	TotalSize       int64     `json:"totalSize"`
	RecordingsSize  int64     `json:"recordingsSize"`
	MinutesSize     int64     `json:"minutesSize"`
	RecordingsCount int       `json:"recordingsCount"`
	MinutesCount    int       `json:"minutesCount"`
}

type StorageStats struct {
	Initialized     bool                  `json:"initialized"`
	TotalSize       int64                 `json:"totalSize"`
	ProjectsCount   int                   `json:"projectsCount"`
	RecordingsCount int                   `json:"recordingsCount"`
	MinutesCount    int                   `json:"minutesCount"`
	Projects        []ProjectStorageStats `json:"projects"`
}

func (sm *storageManager) initialized() bool {
	if _, err := os.Stat(sm.projectsDir()); err != nil {
		return false
	}
	return true
}

func (sm *storageManager) Stats(ctx context.Context) (StorageStats, error) {
	if !sm.initialized() {
		return StorageStats{}, ErrStorageNotInitialized
	}
	projects, err := sm.store.ListProjects(ctx)
	if err != nil {
		return StorageStats{}, err
	}
	stats := StorageStats{Initialized: true, ProjectsCount: len(projects), Projects: []ProjectStorageStats{}}
	for _, p := range projects {
		ps, err := sm.projectStats(ctx, p)
		if err != nil {
			return StorageStats{}, err
		}
		stats.TotalSize += ps.TotalSize
		stats.RecordingsCount += ps.RecordingsCount
		stats.MinutesCount += ps.MinutesCount
		stats.Projects = append(stats.Projects, ps)
	}
	return stats, nil
}

func (sm *storageManager) ProjectStats(ctx context.Context, projectID uuid.UUID) (ProjectStorageStats, error) {
	if !sm.initialized() {
		return ProjectStorageStats{}, ErrStorageNotInitialized
	}
	p, err := sm.store.GetProject(ctx, projectID)
	if err != nil {
		return ProjectStorageStats{}, err
	}
	return sm.projectStats(ctx, p)
}

func (sm *storageManager) projectStats(ctx context.Context, p Project) (ProjectStorageStats, error) {
	recordings, err := sm.store.RecordingsByProject(ctx, p.ID)
	if err != nil {
		return ProjectStorageStats{}, err
	}
	minutes, err := sm.store.MinutesByProject(ctx, p.ID)
	if err != nil {
		return ProjectStorageStats{}, err
	}
	base := filepath.Join(sm.projectsDir(), p.ID.String())
	recSize := dirSize(filepath.Join(base, "recordings"))
	minSize := dirSize(filepath.Join(base, "minutes"))
	return ProjectStorageStats{
		ProjectID:       p.ID,
		ProjectName:     p.Name,
		TotalSize:       recSize + minSize,
		RecordingsSize:  recSize,
		MinutesSize:     minSize,
		RecordingsCount: len(recordings),
		MinutesCount:    len(minutes),
	}, nil
}

func dirSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// BackupData is one whole-project snapshot.
type BackupData struct {
	Project    Project     `json:"project"`
	Recordings []Recording `json:"recordings"`
	Minutes    []Minutes   `json:"minutes"`
	ExportDate time.Time   `json:"exportDate"`
}

type ExportInfo struct {
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	ExportDate time.Time `json:"exportDate"`
}

func (sm *storageManager) Export(ctx context.Context, projectID uuid.UUID) (ExportInfo, error) {
	p, err := sm.store.GetProject(ctx, projectID)
	if err != nil {
		return ExportInfo{}, err
	}
	recordings, err := sm.store.RecordingsByProject(ctx, projectID)
	if err != nil {
		return ExportInfo{}, err
	}
	minutes, err := sm.store.MinutesByProject(ctx, projectID)
	if err != nil {
		return ExportInfo{}, err
	}
	if recordings == nil {
		recordings = []Recording{}
	}
	if minutes == nil {
		minutes = []Minutes{}
	}
	data := BackupData{Project: p, Recordings: recordings, Minutes: minutes, ExportDate: time.Now().UTC()}
	if err := os.MkdirAll(sm.backupsDir(), 0o755); err != nil {
		return ExportInfo{}, fmt.Errorf("create backups dir: %w", err)
	}
	ts := strings.ReplaceAll(data.ExportDate.Format(time.RFC3339), ":", "-")
	fileName := fmt.Sprintf("project_%s_%s.json", projectID, ts)
	path := filepath.Join(sm.backupsDir(), fileName)
	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ExportInfo{}, err
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return ExportInfo{}, fmt.Errorf("write backup: %w", err)
	}
	return ExportInfo{FileName: fileName, FilePath: path, ExportDate: data.ExportDate}, nil
}

type ImportSummary struct {
	Project         Project `json:"project"`
	RecordingsCount int     `json:"recordingsCount"`
	MinutesCount    int     `json:"minutesCount"`
}

// Import upserts a snapshot: the project is matched by name, recordings and
// minutes by (project, name, date). A match overwrites every field; there is
// no field-level merge. Identifiers from the exporting store are not carried
// over.
func (sm *storageManager) Import(ctx context.Context, data BackupData) (ImportSummary, error) {
	if strings.TrimSpace(data.Project.Name) == "" {
		return ImportSummary{}, ErrInvalidImport
	}
	project, err := sm.upsertProject(ctx, data.Project)
	if err != nil {
		return ImportSummary{}, err
	}
	existingRecs, err := sm.store.RecordingsByProject(ctx, project.ID)
	if err != nil {
		return ImportSummary{}, err
	}
	recCount := 0
	for _, in := range data.Recordings {
		if err := sm.upsertRecording(ctx, project.ID, existingRecs, in); err != nil {
			return ImportSummary{}, err
		}
		recCount++
	}
	existingMin, err := sm.store.MinutesByProject(ctx, project.ID)
	if err != nil {
		return ImportSummary{}, err
	}
	minCount := 0
	for _, in := range data.Minutes {
		if err := sm.upsertMinutes(ctx, project.ID, existingMin, in); err != nil {
			return ImportSummary{}, err
		}
		minCount++
	}
	if err := sm.ensureProjectDirs(project.ID); err != nil {
		return ImportSummary{}, err
	}
	return ImportSummary{Project: project, RecordingsCount: recCount, MinutesCount: minCount}, nil
}

func (sm *storageManager) upsertProject(ctx context.Context, in Project) (Project, error) {
	existing, err := sm.store.ProjectByName(ctx, in.Name)
	if errors.Is(err, ErrNotFound) {
		in.ID = uuid.Nil
		return sm.store.CreateProject(ctx, in)
	}
	if err != nil {
		return Project{}, err
	}
	upd := ProjectUpdate{
		Name:              &in.Name,
		Description:       &in.Description,
		StartDate:         &in.StartDate,
		EndDate:           in.EndDate,
		Status:            &in.Status,
		Team:              &in.Team,
		EmailDistribution: &in.EmailDistribution,
		AutoDistribution:  &in.AutoDistribution,
	}
	return sm.store.UpdateProject(ctx, existing.ID, upd)
}

func (sm *storageManager) upsertRecording(ctx context.Context, projectID uuid.UUID, existing []Recording, in Recording) error {
	for _, rec := range existing {
		if rec.Name == in.Name && rec.Date.Equal(in.Date) {
			upd := RecordingUpdate{
				Name:             &in.Name,
				Date:             &in.Date,
				Duration:         &in.Duration,
				ZoomID:           &in.ZoomID,
				URL:              &in.URL,
				Size:             &in.Size,
				Processed:        &in.Processed,
				MinutesGenerated: &in.MinutesGenerated,
			}
			_, err := sm.store.UpdateRecording(ctx, rec.ID, upd)
			return err
		}
	}
	in.ID = uuid.Nil
	in.ProjectID = projectID
	_, err := sm.store.CreateRecording(ctx, in)
	return err
}

func (sm *storageManager) upsertMinutes(ctx context.Context, projectID uuid.UUID, existing []Minutes, in Minutes) error {
	for _, m := range existing {
		if m.Name == in.Name && m.Date.Equal(in.Date) {
			upd := MinutesUpdate{
				Name:        &in.Name,
				Date:        &in.Date,
				Attendees:   &in.Attendees,
				Summary:     &in.Summary,
				Content:     &in.Content,
				ActionItems: &in.ActionItems,
				NextSync:    &in.NextSync,
				EmailSent:   &in.EmailSent,
			}
			_, err := sm.store.UpdateMinutes(ctx, m.ID, upd)
			return err
		}
	}
	in.ID = uuid.Nil
	in.ProjectID = projectID
	// Recording links reference identifiers from the exporting store and do
	// not survive import.
	in.RecordingID = nil
	_, err := sm.store.CreateMinutes(ctx, in)
	return err
}
