package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

func (a *api) handleGetDistributionSettings(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseEntityID(r.PathValue("projectId"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	p, err := a.store.GetProject(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("get project", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{
		"emailDistribution": p.EmailDistribution,
		"autoDistribution":  p.AutoDistribution,
	})
}

func (a *api) handleUpdateDistributionSettings(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseEntityID(r.PathValue("projectId"))
	if err != nil {
		writeError(w, 404, "Project not found")
		return
	}
	var req struct {
		EmailDistribution *string           `json:"emailDistribution"`
		AutoDistribution  *AutoDistribution `json:"autoDistribution"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	upd := ProjectUpdate{
		EmailDistribution: req.EmailDistribution,
		AutoDistribution:  req.AutoDistribution,
	}
	p, err := a.store.UpdateProject(r.Context(), projectID, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "Project not found")
			return
		}
		a.log.Error("update distribution settings", "err", err)
		writeError(w, 500, "server error")
		return
	}
	writeJSON(w, 200, map[string]any{
		"message": "Distribution settings updated",
		"settings": map[string]any{
			"emailDistribution": p.EmailDistribution,
			"autoDistribution":  p.AutoDistribution,
		},
	})
}

func (a *api) handlePendingMinutes(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.PendingMinutes(r.Context())
	if err != nil {
		a.log.Error("pending minutes", "err", err)
		writeError(w, 500, "server error")
		return
	}
	if items == nil {
		items = []Minutes{}
	}
	writeJSON(w, 200, items)
}

// recipientList accepts either a JSON array of addresses or the portal's
// legacy comma-separated string form.
type recipientList []string

func (rl *recipientList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*rl = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*rl = splitRecipients(s)
	return nil
}

func (a *api) handleSendMinutes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MinutesID  string        `json:"minutesId"`
		Recipients recipientList `json:"recipients"`
	}
	if err := readJSON(w, r, &req); err != nil || req.MinutesID == "" {
		writeError(w, 400, "minutesId is required")
		return
	}
	minutesID, err := parseEntityID(req.MinutesID)
	if err != nil {
		writeError(w, 404, "Meeting minutes not found")
		return
	}
	res, err := a.dist.Send(r.Context(), minutesID, req.Recipients)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoRecipients):
			writeError(w, 400, "No recipients specified")
		case errors.Is(err, ErrNotFound):
			writeError(w, 404, "Meeting minutes not found")
		default:
			a.log.Error("send minutes", "err", err)
			writeError(w, 500, "Error sending meeting minutes")
		}
		return
	}
	writeJSON(w, 200, map[string]any{
		"message":    "Meeting minutes sent successfully",
		"recipients": res.Recipients,
	})
}

func (a *api) handleProcessAllPending(w http.ResponseWriter, r *http.Request) {
	res, err := a.dist.ProcessPending(r.Context())
	if err != nil {
		a.log.Error("process pending minutes", "err", err)
		writeError(w, 500, "Error processing pending minutes")
		return
	}
	writeJSON(w, 200, res)
}
