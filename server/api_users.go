package main

import (
	"errors"
	"net/http"
	"strings"
)

func (a *api) handleListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListUsers(r.Context())
	if err != nil {
		a.log.Error("list users", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []User{}
	}
	writeJSON(w, 200, items)
}

func (a *api) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "User not found")
		return
	}
	u, err := a.store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "User not found")
			return
		}
		a.log.Error("get user", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, u)
}

func (a *api) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Role    string `json:"role"`
		Company string `json:"company"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, 400, "name and email are required")
		return
	}
	if req.Role != "" && !validUserRole(req.Role) {
		writeError(w, 400, "invalid role")
		return
	}
	if _, err := a.store.UserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, 400, "User already exists")
		return
	} else if !errors.Is(err, ErrNotFound) {
		a.log.Error("user by email", "err", err)
		writeError(w, 500, "server error")
		return
	}
	u := User{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Role:    req.Role,
		Company: req.Company,
		NotificationSettings: NotificationSettings{
			EmailNotifications: true,
		},
	}
	created, err := a.store.CreateUser(r.Context(), u)
	if err != nil {
		a.log.Error("create user", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 201, created)
}

func (a *api) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "User not found")
		return
	}
	var upd UserUpdate
	if err := readJSON(w, r, &upd); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if upd.Role != nil && !validUserRole(*upd.Role) {
		writeError(w, 400, "invalid role")
		return
	}
	if upd.Email != nil && strings.TrimSpace(*upd.Email) == "" {
		writeError(w, 400, "email cannot be empty")
		return
	}
	u, err := a.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "User not found")
			return
		}
		a.log.Error("update user", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, u)
}

func (a *api) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r.PathValue("id"))
	if err != nil {
		writeError(w, 404, "User not found")
		return
	}
	if err := a.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "User not found")
			return
		}
		a.log.Error("delete user", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "User removed"})
}
