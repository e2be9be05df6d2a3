package view

import (
	"sort"
	"time"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
)

// ClassifiedReminder is a reminder with its derived schedule status. A
// reminder whose due date cannot be parsed has Scheduled set to false and an
// empty Status.
type ClassifiedReminder struct {
	record.Reminder
	DueAt     time.Time     `json:"dueAt"`
	Scheduled bool          `json:"scheduled"`
	Status    status.Status `json:"status,omitempty"`
	DaysUntil int           `json:"daysUntil"`
}

// Label renders the due distance, or the raw due string when unscheduled.
func (c ClassifiedReminder) Label() string {
	if !c.Scheduled {
		return datelike.Format(c.Due)
	}
	return status.Label(c.DaysUntil)
}

// ReminderFilter narrows reminders by status ("all" or empty for every status).
type ReminderFilter struct {
	Status status.Status
}

type ReminderStats struct {
	Total       int `json:"total"`
	Overdue     int `json:"overdue"`
	DueToday    int `json:"dueToday"`
	Upcoming    int `json:"upcoming"`
	Unscheduled int `json:"unscheduled"`
}

type ReminderState = State[record.Reminder, ReminderFilter, ClassifiedReminder]

func NewReminderState() ReminderState {
	return NewState(ProjectReminders, ReminderFilter{Status: All})
}

// Classify derives the status of each reminder against now.
func Classify(raw []record.Reminder, now time.Time) []ClassifiedReminder {
	out := make([]ClassifiedReminder, len(raw))
	for i, r := range raw {
		c := ClassifiedReminder{Reminder: r}
		if due, ok := datelike.NormalizeIn(r.Due, now.Location()); ok {
			c.DueAt = due
			c.Scheduled = true
			c.Status = status.Classify(due, now)
			c.DaysUntil = status.DaysUntil(due, now)
		}
		out[i] = c
	}
	return out
}

// ProjectReminders classifies, filters and orders reminders by due date, soonest first.
func ProjectReminders(raw []record.Reminder, search string, f ReminderFilter, now time.Time) []ClassifiedReminder {
	out := keep(Classify(raw, now), func(c ClassifiedReminder) bool {
		if !matches(search, c.Batch, c.IntervalType, c.ReminderID) {
			return false
		}
		return !enabled(string(f.Status)) || c.Status == f.Status
	})
	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i], out[j]
		switch {
		case !left.Scheduled:
			return false
		case !right.Scheduled:
			return true
		default:
			return left.DueAt.Before(right.DueAt)
		}
	})
	return out
}

// RemindersStats counts the projected list. Unscheduled reminders are kept
// out of the status buckets.
func RemindersStats(projected []ClassifiedReminder) ReminderStats {
	stats := ReminderStats{Total: len(projected)}
	for _, c := range projected {
		switch {
		case !c.Scheduled:
			stats.Unscheduled++
		case c.Status == status.Overdue:
			stats.Overdue++
		case c.Status == status.DueToday:
			stats.DueToday++
		default:
			stats.Upcoming++
		}
	}
	return stats
}
