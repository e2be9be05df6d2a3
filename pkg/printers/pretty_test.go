package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/search"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

func newPrinter() (*PrettyPrint, *bytes.Buffer) {
	var buf bytes.Buffer
	return &PrettyPrint{
		Out:      &buf,
		Catalog:  view.NewCatalog([]record.Product{{Code: 507450, Name: "Lithium EP2"}}),
		Location: time.UTC,
	}, &buf
}

func TestQcLogsTable(t *testing.T) {
	pp, buf := newPrinter()
	pp.QcLogs([]record.QcLog{
		{Batch: "NA100", Code: "507450", Date: "3/5/2024", ReleasedBy: "jane doe"},
		{Batch: "NA200", Code: "999", Date: "bogus"},
	}, view.QcStats{ReleasedToday: 0, Total: 2})

	out := buf.String()
	for _, want := range []string{"QC Releases - 2 releases", "Lithium EP2", "Mar 5, 2024", "JD", view.UnknownProduct, "bogus"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEmptyScreen(t *testing.T) {
	pp, buf := newPrinter()
	pp.Retains(nil, view.RetainStats{})
	if !strings.Contains(buf.String(), "none") || !strings.Contains(buf.String(), "0 retains") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestResultsOptionalColumns(t *testing.T) {
	pp, buf := newPrinter()
	cols, _ := record.ColumnsByKey([]string{"weld"})
	pp.Results([]record.TestingData{{Batch: "NB300", Code: "507450", Weld: "250"}}, cols)
	out := buf.String()
	if !strings.Contains(out, "Weld") || !strings.Contains(out, "250") || !strings.Contains(out, "--") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRemindersAndCalendar(t *testing.T) {
	pp, buf := newPrinter()
	classified := view.ProjectReminders([]record.Reminder{
		{ReminderID: "RM-0001", Batch: "NA100", Code: 507450, IntervalType: "weekly", Due: "2024-05-30"},
		{ReminderID: "RM-0002", Batch: "NA200", IntervalType: "monthly", Due: "2024-06-05"},
	}, "", view.ReminderFilter{}, now)
	pp.Reminders(classified, view.RemindersStats(classified))
	out := buf.String()
	if !strings.Contains(out, "2 days overdue") || !strings.Contains(out, "In 4 days") || !strings.Contains(out, "Lithium EP2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "unscheduled") {
		t.Fatalf("unscheduled count shown when zero:\n%s", out)
	}

	buf.Reset()
	undated := view.ProjectReminders([]record.Reminder{{ReminderID: "RM-0003", Batch: "NA300", Due: "someday"}}, "", view.ReminderFilter{}, now)
	pp.Reminders(undated, view.RemindersStats(undated))
	if out := buf.String(); !strings.Contains(out, "unscheduled 1") {
		t.Fatalf("expected unscheduled count:\n%s", out)
	}

	buf.Reset()
	pp.ReminderCalendar(now, classified)
	out = buf.String()
	if !strings.Contains(out, "June 2024") || !strings.Contains(out, "30") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
}

func TestCalendarHelpers(t *testing.T) {
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if DaysIn(feb) != 29 {
		t.Fatalf("expected leap february")
	}
	if StartDay(feb) != time.Thursday {
		t.Fatalf("expected Feb 1 2024 to be a Thursday, got %s", StartDay(feb))
	}
	if got := NextMonth(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)); got.Month() != time.January || got.Year() != 2025 {
		t.Fatalf("unexpected next month %s", got)
	}
	if urgency(status.Overdue) <= urgency(status.Upcoming) {
		t.Fatalf("overdue should outrank upcoming")
	}
}

func TestSuggestionsPartial(t *testing.T) {
	pp, buf := newPrinter()
	pp.Suggestions(search.Result{
		Query:       "na1",
		Suggestions: []search.Suggestion{{Key: "NA100", Kind: record.KindQcLog, Label: "NA100 · 507450 (QC)", Target: "/qc?search=NA100"}},
		Failed:      []record.Kind{record.KindRetain},
	})
	out := buf.String()
	if !strings.Contains(out, "/qc?search=NA100") || !strings.Contains(out, "failed: retains") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestActivity(t *testing.T) {
	pp, buf := newPrinter()
	pp.Activity([]app.Activity{{Action: app.ActionRemoved, Code: 507450, Batch: "NA100", Box: 3, At: now}})
	if !strings.Contains(buf.String(), "removed") || !strings.Contains(buf.String(), "box 3  14:00") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
