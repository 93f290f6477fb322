package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

var ErrNoRecipients = errors.New("no recipients specified")

// distributor renders meeting minutes to HTML and dispatches them by email.
// It is the only writer of the emailSent flag.
type distributor struct {
	store  Store
	mailer Mailer
	log    *slog.Logger
}

func newDistributor(store Store, mailer Mailer, log *slog.Logger) *distributor {
	return &distributor{store: store, mailer: mailer, log: log}
}

type SendResult struct {
	MinutesID  uuid.UUID `json:"minutesId"`
	Recipients []string  `json:"recipients"`
}

type SweepDetail struct {
	MinutesID  uuid.UUID `json:"minutesId"`
	Name       string    `json:"name"`
	Status     string    `json:"status"` // sent, failed, skipped
	Reason     string    `json:"reason,omitempty"`
	Error      string    `json:"error,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`
}

type SweepResult struct {
	Total   int           `json:"total"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Skipped int           `json:"skipped"`
	Details []SweepDetail `json:"details"`
}

// Send delivers a single minutes document. Explicit recipients win over the
// project's configured distribution list; with neither, the send is a
// validation error. The emailSent flag is persisted only after the transport
// call returns without error.
func (d *distributor) Send(ctx context.Context, minutesID uuid.UUID, recipients []string) (SendResult, error) {
	m, err := d.store.GetMinutes(ctx, minutesID)
	if err != nil {
		return SendResult{}, err
	}
	project, err := d.store.GetProject(ctx, m.ProjectID)
	if err != nil {
		return SendResult{}, err
	}
	to := recipients
	if len(to) == 0 {
		to = splitRecipients(project.EmailDistribution)
	}
	if len(to) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	if err := d.deliver(ctx, m, to); err != nil {
		return SendResult{}, err
	}
	return SendResult{MinutesID: m.ID, Recipients: to}, nil
}

// ProcessPending sweeps every minutes document not yet sent. Per-item
// failures are recorded and never abort the sweep; skipped items keep
// emailSent false.
func (d *distributor) ProcessPending(ctx context.Context) (SweepResult, error) {
	pending, err := d.store.PendingMinutes(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	res := SweepResult{Total: len(pending), Details: []SweepDetail{}}
	for _, m := range pending {
		project, err := d.store.GetProject(ctx, m.ProjectID)
		if err != nil {
			res.Failed++
			res.Details = append(res.Details, SweepDetail{MinutesID: m.ID, Name: m.Name, Status: "failed", Error: err.Error()})
			continue
		}
		if !project.AutoDistribution.Enabled {
			res.Skipped++
			res.Details = append(res.Details, SweepDetail{MinutesID: m.ID, Name: m.Name, Status: "skipped", Reason: "Auto distribution not enabled for project"})
			continue
		}
		to := splitRecipients(project.EmailDistribution)
		if len(to) == 0 {
			res.Skipped++
			res.Details = append(res.Details, SweepDetail{MinutesID: m.ID, Name: m.Name, Status: "skipped", Reason: "No recipients specified for project"})
			continue
		}
		if err := d.deliver(ctx, m, to); err != nil {
			d.log.Error("send minutes", "minutes_id", m.ID, "err", err)
			res.Failed++
			res.Details = append(res.Details, SweepDetail{MinutesID: m.ID, Name: m.Name, Status: "failed", Error: err.Error()})
			continue
		}
		res.Sent++
		res.Details = append(res.Details, SweepDetail{MinutesID: m.ID, Name: m.Name, Status: "sent", Recipients: to})
	}
	return res, nil
}

func (d *distributor) deliver(ctx context.Context, m Minutes, to []string) error {
	var rec *Recording
	if m.RecordingID != nil {
		r, err := d.store.GetRecording(ctx, *m.RecordingID)
		if err == nil {
			rec = &r
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	subject, body, err := renderMinutesEmail(m, rec)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		return err
	}
	return d.store.MarkMinutesSent(ctx, m.ID)
}

func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const emailDateFormat = "January 2, 2006"

var minutesTemplate = template.Must(template.New("minutes").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`<h2>{{.Name}}</h2>
<p><strong>Date:</strong> {{.Date}}</p>
{{if .Attendees}}<p><strong>Attendees:</strong> {{join .Attendees ", "}}</p>
{{end}}{{if .Summary}}<h3>Summary</h3>
<p>{{.Summary}}</p>
{{end}}<h3>Meeting Notes</h3>
<div>{{.Content}}</div>
{{if .ActionItems}}<h3>Action Items</h3>
<ul>
{{range .ActionItems}}<li><strong>{{.Description}}</strong>{{if .Assignee}} - Assigned to: {{.Assignee}}{{end}}{{if .DueDate}} - Due: {{.DueDate}}{{end}}{{if .Status}} - Status: {{.Status}}{{end}}</li>
{{end}}</ul>
{{end}}{{if .NextSync}}<p><strong>Next Meeting:</strong> {{.NextSync}}</p>
{{end}}{{if .RecordingURL}}<p><strong>Recording:</strong> <a href="{{.RecordingURL}}">View Recording</a></p>
{{end}}`))

type emailActionItem struct {
	Description string
	Assignee    string
	DueDate     string
	Status      string
}

type minutesEmailData struct {
	Name         string
	Date         string
	Attendees    []string
	Summary      string
	Content      template.HTML
	ActionItems  []emailActionItem
	NextSync     string
	RecordingURL string
}

func renderMinutesEmail(m Minutes, rec *Recording) (subject, body string, err error) {
	data := minutesEmailData{
		Name:      m.Name,
		Date:      m.Date.Format(emailDateFormat),
		Attendees: m.Attendees,
		Summary:   m.Summary,
		// Minutes content is authored HTML and passes through unescaped,
		// matching what recipients see in the portal.
		Content:  template.HTML(m.Content),
		NextSync: m.NextSync,
	}
	for _, item := range m.ActionItems {
		ai := emailActionItem{Description: item.Description, Assignee: item.Assignee, Status: item.Status}
		if item.DueDate != nil {
			ai.DueDate = item.DueDate.Format(emailDateFormat)
		}
		data.ActionItems = append(data.ActionItems, ai)
	}
	if rec != nil && rec.URL != "" {
		data.RecordingURL = rec.URL
	}
	var buf bytes.Buffer
	if err := minutesTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render minutes email: %w", err)
	}
	subject = fmt.Sprintf("Meeting Minutes: %s - %s", m.Name, m.Date.Format("1/2/2006"))
	return subject, buf.String(), nil
}
