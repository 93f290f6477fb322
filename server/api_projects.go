package main

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

func (a *api) handleListProjects(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListProjects(r.Context())
	if err != nil {
		a.log.Error("list projects", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Project{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	p, err := a.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("get project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, p)
}

func (a *api) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string           `json:"name"`
		Description       string           `json:"description"`
		StartDate         *time.Time       `json:"startDate"`
		EndDate           *time.Time       `json:"endDate"`
		Status            string           `json:"status"`
		Team              []TeamMember     `json:"team"`
		EmailDistribution string           `json:"emailDistribution"`
		AutoDistribution  AutoDistribution `json:"autoDistribution"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "name is required")
		return
	}
	if req.Status != "" && !validProjectStatus(req.Status) {
		writeError(w, 400, "invalid status")
		return
	}
	p := Project{
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		EndDate:           req.EndDate,
		Status:            req.Status,
		Team:              req.Team,
		EmailDistribution: req.EmailDistribution,
		AutoDistribution:  req.AutoDistribution,
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	created, err := a.store.CreateProject(r.Context(), p)
	if err != nil {
		a.log.Error("create project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 201, created)
}

func (a *api) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	var upd ProjectUpdate
	if err := readJSON(w, r, &upd); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	if upd.Status != nil && !validProjectStatus(*upd.Status) {
		writeError(w, 400, "invalid status")
		return
	}
	p, err := a.store.UpdateProject(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("update project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, p)
}

func (a *api) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	// Recordings and minutes go with the project.
	if err := a.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("delete project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Project removed"})
}
