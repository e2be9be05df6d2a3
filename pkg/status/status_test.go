package status

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyExamples(t *testing.T) {
	today := date(2024, time.June, 1).Add(15 * time.Hour)
	tests := []struct {
		due    time.Time
		status Status
		label  string
	}{
		{date(2024, time.May, 30), Overdue, "2 days overdue"},
		{date(2024, time.June, 1), DueToday, "Due today"},
		{date(2024, time.June, 1).Add(23 * time.Hour), DueToday, "Due today"},
		{date(2024, time.June, 5), Upcoming, "In 4 days"},
	}
	for _, tt := range tests {
		if got := Classify(tt.due, today); got != tt.status {
			t.Fatalf("Classify(%v): expected %s, got %s", tt.due, tt.status, got)
		}
		if got := Label(DaysUntil(tt.due, today)); got != tt.label {
			t.Fatalf("Label for %v: expected %q, got %q", tt.due, tt.label, got)
		}
	}
}

func TestClassifyExactlyOne(t *testing.T) {
	now := date(2024, time.March, 10).Add(9 * time.Hour)
	for offset := -72; offset <= 72; offset++ {
		due := now.Add(time.Duration(offset) * time.Hour)
		got := Classify(due, now)
		sameDay := Day(due, time.UTC).Equal(Day(now, time.UTC))
		if (got == DueToday) != sameDay {
			t.Fatalf("offset %dh: status %s but sameDay=%v", offset, got, sameDay)
		}
		count := 0
		for _, s := range All() {
			if s == got {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("offset %dh: status %q is not a single known status", offset, got)
		}
	}
}

func TestDaysUntilAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	now := time.Date(2024, time.March, 9, 12, 0, 0, 0, loc)
	due := time.Date(2024, time.March, 11, 0, 0, 0, 0, loc)
	if got := DaysUntil(due, now); got != 2 {
		t.Fatalf("expected 2 days across spring-forward, got %d", got)
	}
}

func TestParse(t *testing.T) {
	if s, err := Parse("Due-Today"); err != nil || s != DueToday {
		t.Fatalf("expected due_today, got %q %v", s, err)
	}
	if _, err := Parse("soon"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
