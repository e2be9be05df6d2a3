package view

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
)

var now = time.Date(2024, time.June, 1, 14, 0, 0, 0, time.UTC)

func batches[R any](items []R, key func(R) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = key(it)
	}
	return out
}

func qcKey(l record.QcLog) string { return l.Batch }

func TestProjectQcLogsSortsNewestFirstUnparseableLast(t *testing.T) {
	raw := []record.QcLog{
		{Batch: "NA100", Code: "5074", Date: "3/5/2024", ReleasedBy: "Jane"},
		{Batch: "NA101", Code: "5074", Date: "pending", ReleasedBy: "Sam"},
		{Batch: "NA102", Code: "6100", Date: "2024-5-20", ReleasedBy: "Jane"},
		{Batch: "NA103", Code: "6100", Date: "", ReleasedBy: ""},
		{Batch: "NA104", Code: "6100", Date: "5/20/2024 - 5/22/2024", ReleasedBy: "Sam"},
	}
	original := append([]record.QcLog(nil), raw...)

	got := batches(ProjectQcLogs(raw, "", QcFilter{ReleasedBy: All}, now), qcKey)
	want := []string{"NA102", "NA104", "NA100", "NA101", "NA103"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(raw, original) {
		t.Fatalf("projection mutated raw records")
	}

	again := batches(ProjectQcLogs(raw, "", QcFilter{ReleasedBy: All}, now), qcKey)
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("projection not deterministic: %v vs %v", got, again)
	}
}

func TestProjectQcLogsFilters(t *testing.T) {
	raw := []record.QcLog{
		{Batch: "NA100", Code: "5074", Date: "3/5/2024", ReleasedBy: "Jane"},
		{Batch: "XB200", Code: "5074", Date: "3/6/2024", ReleasedBy: "Sam"},
		{Batch: "XB201", Code: "6100", Date: "3/7/2024", ReleasedBy: "Jane"},
	}
	tests := []struct {
		name   string
		search string
		filter QcFilter
		want   []string
	}{
		{"empty is identity", "", QcFilter{}, []string{"XB201", "XB200", "NA100"}},
		{"batch case-insensitive", "xb", QcFilter{ReleasedBy: All}, []string{"XB201", "XB200"}},
		{"code", "5074", QcFilter{ReleasedBy: All}, []string{"XB200", "NA100"}},
		{"released by", "", QcFilter{ReleasedBy: "Jane"}, []string{"XB201", "NA100"}},
		{"both", "xb", QcFilter{ReleasedBy: "Jane"}, []string{"XB201"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batches(ProjectQcLogs(raw, tt.search, tt.filter, now), qcKey)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestQcLogStatsIgnoresSearch(t *testing.T) {
	raw := []record.QcLog{
		{Batch: "A", Date: "6/1/2024"},
		{Batch: "B", Date: "2024-06-01"},
		{Batch: "C", Date: "5/31/2024"},
		{Batch: "D", Date: "garbage"},
	}
	stats := QcLogStats(raw, now)
	if stats.ReleasedToday != 2 || stats.Total != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := ReleasedByOptions([]record.QcLog{{ReleasedBy: "Sam"}, {}, {ReleasedBy: "Jane"}, {ReleasedBy: "Sam"}}); !reflect.DeepEqual(got, []string{"Sam", "Jane"}) {
		t.Fatalf("unexpected released-by options %v", got)
	}
}

func TestUnspacedRangeSortsAndCountsByLeftDate(t *testing.T) {
	march5 := time.Date(2024, time.March, 5, 11, 0, 0, 0, time.UTC)
	raw := []record.QcLog{
		{Batch: "A", Date: "3/1/2024"},
		{Batch: "B", Date: "3/5/2024-3/9/2024"},
	}
	got := batches(ProjectQcLogs(raw, "", QcFilter{ReleasedBy: All}, march5), qcKey)
	if want := []string{"B", "A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if stats := QcLogStats(raw, march5); stats.ReleasedToday != 1 {
		t.Fatalf("expected the range released today, got %+v", stats)
	}
}

func TestProjectRetainsByBoxStable(t *testing.T) {
	raw := []record.Retain{
		{ID: 1, Batch: "NA1", Code: 507450, Box: 3},
		{ID: 2, Batch: "NA2", Code: 507450, Box: 1},
		{ID: 3, Batch: "NA3", Code: 610000, Box: 3},
		{ID: 4, Batch: "NA4", Code: 610000, Box: 1},
	}
	got := ProjectRetains(raw, "", RetainFilter{}, now)
	ids := batches(got, func(r record.Retain) string { return r.Key() })
	if want := []string{"2", "4", "1", "3"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}

	box := 3
	got = ProjectRetains(raw, "6100", RetainFilter{Box: &box}, now)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only retain 3, got %+v", got)
	}

	stats := RetainsStats(raw)
	if stats.Total != 4 || stats.ActiveBoxes != 2 || stats.Active != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if boxes := BoxOptions(raw); !reflect.DeepEqual(boxes, []int{1, 3}) {
		t.Fatalf("unexpected box options %v", boxes)
	}
}

func TestProjectResultsKeepsOrder(t *testing.T) {
	raw := []record.TestingData{{Batch: "B2", Code: "77"}, {Batch: "A1", Code: "77"}, {Batch: "C3", Code: "88"}}
	got := ProjectResults(raw, "77", ResultFilter{}, now)
	if len(got) != 2 || got[0].Batch != "B2" || got[1].Batch != "A1" {
		t.Fatalf("unexpected results %+v", got)
	}
}

func TestProjectReminders(t *testing.T) {
	raw := []record.Reminder{
		{ID: 1, Batch: "NA1", IntervalType: "weekly", Due: "2024-06-05"},
		{ID: 2, Batch: "NA2", IntervalType: "monthly", Due: "whenever"},
		{ID: 3, Batch: "NA3", IntervalType: "weekly", Due: "5/30/2024"},
		{ID: 4, Batch: "NA4", IntervalType: "annual", Due: "6/1/2024"},
	}
	got := ProjectReminders(raw, "", ReminderFilter{Status: All}, now)
	ids := batches(got, func(c ClassifiedReminder) string { return c.Batch })
	if want := []string{"NA3", "NA4", "NA1", "NA2"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	labels := batches(got, ClassifiedReminder.Label)
	if want := []string{"2 days overdue", "Due today", "In 4 days", "whenever"}; !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected labels %v, got %v", want, labels)
	}

	stats := RemindersStats(got)
	want := ReminderStats{Total: 4, Overdue: 1, DueToday: 1, Upcoming: 1, Unscheduled: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}

	overdue := ProjectReminders(raw, "", ReminderFilter{Status: status.Overdue}, now)
	if len(overdue) != 1 || overdue[0].ID != 3 {
		t.Fatalf("expected only reminder 3, got %+v", overdue)
	}
	weekly := ProjectReminders(raw, "WEEK", ReminderFilter{}, now)
	if len(weekly) != 2 {
		t.Fatalf("expected two weekly reminders, got %d", len(weekly))
	}
}

func TestStateDerivedTracksInputs(t *testing.T) {
	s := NewQcState().WithRaw([]record.QcLog{
		{Batch: "NA1", Date: "1/1/2024", ReleasedBy: "Jane"},
		{Batch: "NB2", Date: "1/2/2024", ReleasedBy: "Sam"},
	}, now)
	if got := len(s.Derived(now)); got != 2 {
		t.Fatalf("expected 2 derived records, got %d", got)
	}
	narrowed := s.WithSearch("nb")
	if got := narrowed.Derived(now); len(got) != 1 || got[0].Batch != "NB2" {
		t.Fatalf("unexpected derived list %+v", got)
	}
	if got := len(s.Derived(now)); got != 2 {
		t.Fatalf("original snapshot changed, got %d records", got)
	}

	failed := narrowed.WithError(errTest)
	if failed.Err() == nil || len(failed.Raw()) != 2 {
		t.Fatalf("expected error flag with last good raw list")
	}
	if !failed.Loaded() {
		t.Fatalf("expected state to stay loaded")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

func TestBatchesStatsDecimal(t *testing.T) {
	raw := []record.MonthlyBatch{
		{Batch: "B1", Lbs: 0.1, Type: "Grease", Released: "yes", DateStart: "1/5/2024"},
		{Batch: "B2", Lbs: 0.2, Type: "grease", Released: "", DateStart: "1/20/2024"},
		{Batch: "B3", Lbs: 1000, Type: "Rework", Released: "yes", DateStart: "2/1/2024"},
		{Batch: "B4", Lbs: 50, Type: "Grease", Released: "yes", DateStart: "12/31/2023"},
	}
	stats := BatchesStats(raw)
	if !stats.TotalPounds.Equal(decimal.RequireFromString("1050.3")) {
		t.Fatalf("expected exact total 1050.3, got %s", stats.TotalPounds)
	}
	if !stats.ByType["grease"].Equal(decimal.RequireFromString("50.3")) {
		t.Fatalf("unexpected grease total %s", stats.ByType["grease"])
	}
	if stats.Released != 3 {
		t.Fatalf("expected 3 released, got %d", stats.Released)
	}

	filtered := ProjectBatches(raw, "", BatchFilter{Type: "grease", Released: All}, now)
	if got := batches(filtered, record.MonthlyBatch.Key); !reflect.DeepEqual(got, []string{"B2", "B1", "B4"}) {
		t.Fatalf("unexpected batch order %v", got)
	}

	months := ProductionByMonth(raw, 2024, time.UTC)
	if len(months) != 12 || months[0].BatchCount != 2 || months[1].BatchCount != 1 {
		t.Fatalf("unexpected monthly buckets %+v", months[:2])
	}
	released, rework := ProductionTotals(months)
	if !released.Equal(decimal.RequireFromString("0.3")) || !rework.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected totals released=%s rework=%s", released, rework)
	}
	if years := AvailableYears(raw, time.UTC); !reflect.DeepEqual(years, []int{2024, 2023}) {
		t.Fatalf("unexpected years %v", years)
	}
}

func TestDefaultYear(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		want  int
	}{
		{"current year present", []int{2025, 2024, 2023}, 2024},
		{"current year missing", []int{2023, 2022}, 2023},
		{"no batches", nil, 2024},
	}
	for _, tt := range tests {
		if got := DefaultYear(tt.years, now); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]record.Product{{Code: 507450, Name: "Lithium Complex EP2"}})
	if got := c.Name(" 507450"); got != "Lithium Complex EP2" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := c.NameFor(1); got != UnknownProduct {
		t.Fatalf("expected unknown product, got %q", got)
	}
}
