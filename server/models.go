package main

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses. Stored as plain text; validated at the API boundary.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
)

// Action item statuses.
const (
	ActionOpen       = "Open"
	ActionInProgress = "In Progress"
	ActionCompleted  = "Completed"
)

// User roles.
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleTeamMember     = "team_member"
	RoleViewer         = "viewer"
)

type TeamMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AutoDistribution controls the bulk distribution sweep for a project.
// ScheduleType is stored for the external trigger's benefit; nothing
// in-process consults it.
type AutoDistribution struct {
	Enabled      bool   `json:"enabled"`
	ScheduleType string `json:"scheduleType"` // immediate, daily, weekly
	Time         string `json:"time"`
}

type Project struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	StartDate         time.Time        `json:"startDate"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	Status            string           `json:"status"`
	Team              []TeamMember     `json:"team"`
	EmailDistribution string           `json:"emailDistribution"`
	AutoDistribution  AutoDistribution `json:"autoDistribution"`
	CreatedAt         time.Time        `json:"createdAt"`
}

type Recording struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	// Duration and Size are display strings ("42:07", "118.3 MB") mapped
	// from the Zoom payload on import or entered by hand.
	Duration         string    `json:"duration,omitempty"`
	ZoomID           string    `json:"zoomId,omitempty"`
	URL              string    `json:"url,omitempty"`
	Size             string    `json:"size,omitempty"`
	Processed        bool      `json:"processed"`
	MinutesGenerated bool      `json:"minutesGenerated"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ActionItem struct {
	Description string     `json:"description"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type Minutes struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	RecordingID *uuid.UUID   `json:"recordingId,omitempty"`
	Name        string       `json:"name"`
	Date        time.Time    `json:"date"`
	Attendees   []string     `json:"attendees"`
	Summary     string       `json:"summary,omitempty"`
	Content     string       `json:"content"`
	ActionItems []ActionItem `json:"actionItems"`
	NextSync    string       `json:"nextSync,omitempty"`
	// EmailSent is flipped by the distribution engine after a successful
	// transport call and is never reset automatically.
	EmailSent bool      `json:"emailSent"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationSettings struct {
	EmailNotifications  bool `json:"emailNotifications"`
	DistributionReports bool `json:"distributionReports"`
}

// ZoomIntegration holds per-user Zoom credentials. APISecret is write-only:
// read responses never include it.
type ZoomIntegration struct {
	APIKey    string `json:"apiKey,omitempty"`
	APISecret string `json:"apiSecret,omitempty"`
	Connected bool   `json:"connected"`
}

type User struct {
	ID                   uuid.UUID            `json:"id"`
	Name                 string               `json:"name"`
	Email                string               `json:"email"`
	Role                 string               `json:"role"`
	Company              string               `json:"company,omitempty"`
	NotificationSettings NotificationSettings `json:"notificationSettings"`
	ZoomIntegration      ZoomIntegration      `json:"zoomIntegration"`
	CreatedAt            time.Time            `json:"createdAt"`
}

// ZoomSettings is the single global credential record for the Zoom API.
type ZoomSettings struct {
	APIKey    string    `json:"apiKey"`
	APISecret string    `json:"apiSecret"`
	AccountID string    `json:"accountId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func validProjectStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

func validActionStatus(s string) bool {
	switch s {
	case "", ActionOpen, ActionInProgress, ActionCompleted:
		return true
	}
	return false
}

func validUserRole(s string) bool {
	switch s {
	case RoleAdmin, RoleProjectManager, RoleTeamMember, RoleViewer:
		return true
	}
	return false
}
