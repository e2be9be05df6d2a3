// Package status classifies due dates against the current day.
package status

import (
	"fmt"
	"strings"
	"time"
)

// Status is the scheduling state of something with a due date.
type Status string

const (
	Overdue  Status = "overdue"
	DueToday Status = "due_today"
	Upcoming Status = "upcoming"
)

// All lists every status in display order.
func All() []Status {
	return []Status{Overdue, DueToday, Upcoming}
}

func (s Status) String() string {
	return string(s)
}

// Parse accepts the canonical names plus a few spellings used on the command line.
func Parse(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "overdue", "late":
		return Overdue, nil
	case "due_today", "due-today", "today":
		return DueToday, nil
	case "upcoming", "future":
		return Upcoming, nil
	}
	return "", fmt.Errorf("unknown status %q (expected overdue, due_today or upcoming)", v)
}

// Day truncates t to midnight of its calendar day in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Classify compares the calendar days of due and now, using now's location.
func Classify(due, now time.Time) Status {
	d := DaysUntil(due, now)
	switch {
	case d < 0:
		return Overdue
	case d == 0:
		return DueToday
	default:
		return Upcoming
	}
}

// DaysUntil is the signed number of calendar days from now to due. Counting
// whole dates keeps daylight-saving transitions from shifting the result.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	return civilDays(Day(due, loc)) - civilDays(Day(now, loc))
}

// Label renders a day count the way reminder lists show it.
func Label(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

func civilDays(t time.Time) int {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(u.Unix() / 86400)
}
