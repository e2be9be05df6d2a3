package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

const width = len("11 12 13 14 15 16 17") // an example week

// ReminderCalendar prints a month grid with every day that has a reminder
// due highlighted in the color of its most urgent status.
func (pp *PrettyPrint) ReminderCalendar(month time.Time, reminders []view.ClassifiedReminder) {
	then := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, pp.loc())
	days := DaysIn(then)
	due := make([]status.Status, days)
	for _, r := range reminders {
		if !r.Scheduled {
			continue
		}
		at := r.DueAt.In(pp.loc())
		if at.Year() != then.Year() || at.Month() != then.Month() {
			continue
		}
		i := at.Day() - 1
		if due[i] == "" || urgency(r.Status) > urgency(due[i]) {
			due[i] = r.Status
		}
	}
	pp.PrintMonth(then, due)
}

func urgency(st status.Status) int {
	switch st {
	case status.Overdue:
		return 3
	case status.DueToday:
		return 2
	case status.Upcoming:
		return 1
	}
	return 0
}

// PrintMonth prints one month. due holds one entry per day of the month; an
// empty status leaves the day unmarked.
func (pp *PrettyPrint) PrintMonth(then time.Time, due []status.Status) {
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.out(), "   ")
	}

	plain := color.New(color.Faint, color.FgWhite)

	for i := 0; i < DaysIn(then); i++ {
		c := plain
		if i < len(due) && due[i] != "" {
			c = statusColor(due[i])
		}
		_, _ = c.Fprintf(pp.out(), "%2d ", i+1)

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.out(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 0, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 0, 0, 0, 0, time.UTC).Weekday()
}
