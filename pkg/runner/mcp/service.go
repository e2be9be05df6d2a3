// Package mcp provides the Model Context Protocol server integration for labdash.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/offset"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/search"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

// Service adapts app.Service results into transport-friendly shapes.
type Service struct {
	App *app.Service
}

// NewService builds a service wrapper around the application service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// ReminderDTO is a classified reminder.
type ReminderDTO struct {
	ID           int    `json:"id"`
	ReminderID   string `json:"reminderId"`
	Batch        string `json:"batch"`
	Code         int    `json:"code"`
	Product      string `json:"product"`
	IntervalType string `json:"intervalType"`
	Due          string `json:"due"`
	DueDisplay   string `json:"dueDisplay"`
	Scheduled    bool   `json:"scheduled"`
	Status       string `json:"status,omitempty"`
	DaysUntil    int    `json:"daysUntil"`
	Label        string `json:"label"`
}

type ReminderList struct {
	Reminders []ReminderDTO      `json:"reminders"`
	Stats     view.ReminderStats `json:"stats"`
}

// QcLogDTO is a QC release with its product name resolved.
type QcLogDTO struct {
	record.QcLog
	Product     string `json:"product"`
	DateDisplay string `json:"dateDisplay"`
}

type QcLogList struct {
	Logs  []QcLogDTO   `json:"logs"`
	Stats view.QcStats `json:"stats"`
}

// OffsetDTO is a resolved reminder schedule.
type OffsetDTO struct {
	Days    int    `json:"days"`
	DueDate string `json:"dueDate"`
	Label   string `json:"label"`
}

// Search runs a cross-kind search.
func (s *Service) Search(ctx context.Context, query string) (search.Result, error) {
	if s.App == nil {
		return search.Result{}, app.ErrNoStore
	}
	return s.App.Search(ctx, query)
}

// ListReminders classifies reminders, optionally narrowed by status name and
// search term.
func (s *Service) ListReminders(ctx context.Context, statusName, term string) (ReminderList, error) {
	if s.App == nil {
		return ReminderList{}, app.ErrNoStore
	}
	filter := view.ReminderFilter{Status: view.All}
	if v := strings.TrimSpace(statusName); v != "" && v != view.All {
		st, err := status.Parse(v)
		if err != nil {
			return ReminderList{}, err
		}
		filter.Status = st
	}
	raw, err := s.App.Reminders(ctx)
	if err != nil {
		return ReminderList{}, err
	}
	now := s.now()
	catalog := s.App.Catalog(ctx)
	projected := view.ProjectReminders(raw, term, filter, now)
	out := ReminderList{Reminders: make([]ReminderDTO, 0, len(projected)), Stats: view.RemindersStats(projected)}
	for _, c := range projected {
		out.Reminders = append(out.Reminders, ReminderDTO{
			ID:           c.ID,
			ReminderID:   c.ReminderID,
			Batch:        c.Batch,
			Code:         c.Code,
			Product:      catalog.NameFor(c.Code),
			IntervalType: c.IntervalType,
			Due:          c.Due,
			DueDisplay:   datelike.FormatIn(c.Due, now.Location()),
			Scheduled:    c.Scheduled,
			Status:       string(c.Status),
			DaysUntil:    c.DaysUntil,
			Label:        c.Label(),
		})
	}
	return out, nil
}

// ListQcLogs returns QC releases, newest first.
func (s *Service) ListQcLogs(ctx context.Context, term, releasedBy string) (QcLogList, error) {
	if s.App == nil {
		return QcLogList{}, app.ErrNoStore
	}
	raw, err := s.App.QcLogs(ctx)
	if err != nil {
		return QcLogList{}, err
	}
	filter := view.QcFilter{ReleasedBy: view.All}
	if v := strings.TrimSpace(releasedBy); v != "" {
		filter.ReleasedBy = v
	}
	now := s.now()
	catalog := s.App.Catalog(ctx)
	projected := view.ProjectQcLogs(raw, term, filter, now)
	out := QcLogList{Logs: make([]QcLogDTO, 0, len(projected)), Stats: view.QcLogStats(raw, now)}
	for _, l := range projected {
		out.Logs = append(out.Logs, QcLogDTO{
			QcLog:       l,
			Product:     catalog.Name(l.Code),
			DateDisplay: datelike.FormatIn(l.Date, now.Location()),
		})
	}
	return out, nil
}

// ResolveOffset resolves a scheduling request against today.
func (s *Service) ResolveOffset(req offset.Request) (OffsetDTO, error) {
	today := s.now()
	days, err := offset.Resolve(req, today)
	if err != nil {
		return OffsetDTO{}, err
	}
	return OffsetDTO{
		Days:    days,
		DueDate: datelike.ISO(offset.DueDate(today, days)),
		Label:   status.Label(days),
	}, nil
}

// AddReminder creates a reminder.
func (s *Service) AddReminder(ctx context.Context, in app.ReminderInput) (record.Reminder, error) {
	if s.App == nil {
		return record.Reminder{}, app.ErrNoStore
	}
	return s.App.AddReminder(ctx, in)
}

// Records lists raw records of one kind.
func (s *Service) Records(ctx context.Context, kindName string) (any, error) {
	if s.App == nil {
		return nil, app.ErrNoStore
	}
	kind, err := record.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	switch kind {
	case record.KindProduct:
		return s.App.Products(ctx)
	case record.KindBatch:
		return s.App.Batches(ctx)
	case record.KindTesting:
		return s.App.Results(ctx)
	case record.KindQcLog:
		return s.App.QcLogs(ctx)
	case record.KindRetain:
		return s.App.Retains(ctx)
	case record.KindReminder:
		return s.App.Reminders(ctx)
	case record.KindActivity:
		return s.App.Activity.Recent(ctx)
	}
	return nil, fmt.Errorf("no listing for %s", kind)
}

func (s *Service) now() time.Time {
	if s.App == nil {
		return time.Now()
	}
	return s.App.Now()
}
