// Command seed loads a small set of demo records into the configured store.
package main

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

func main() {
	cfg, err := store.LoadConfig()
	if err != nil {
		panic(err)
	}
	s, err := store.Open(cfg, logging.New(cfg.Log))
	if err != nil {
		panic(err)
	}
	defer s.Close()

	b := demo(time.Now())
	if err := s.Import(context.Background(), b); err != nil {
		panic(err)
	}

	for _, k := range record.Kinds() {
		fmt.Printf("%-10s %d\n", k, b.Counts()[k])
	}
}

// demo dates everything relative to now so the reminder statuses always
// cover overdue, due today and upcoming.
func demo(now time.Time) store.Bundle {
	day := func(offset int) string { return datelike.ISO(now.AddDate(0, 0, offset)) }
	return store.Bundle{
		Products: []record.Product{
			{Code: 507450, Name: "Lithium EP2"},
			{Code: 507460, Name: "Calcium Sulfonate 1"},
			{Code: 508100, Name: "Aluminum Complex 2"},
		},
		Batches: []record.MonthlyBatch{
			{Batch: "NA100", Code: 507450, DateStart: day(-40), DateEnd: day(-39), Lbs: 4200.5, Released: "yes", Type: "production"},
			{Batch: "NA200", Code: 507460, DateStart: day(-12), DateEnd: day(-11), Lbs: 3800, Released: "yes", Type: "production"},
			{Batch: "NA210", Code: 507460, DateStart: day(-10), DateEnd: day(-10), Lbs: 650.25, Released: "no", Type: "rework"},
			{Batch: "NA300", Code: 508100, DateStart: day(-2), Lbs: 5000, Released: "no", Type: "production"},
		},
		Results: []record.TestingData{
			{Batch: "NA100", Code: "507450", Pen60x: "285", DropPoint: "388", Weld: "315"},
			{Batch: "NA200", Code: "507460", Pen60x: "270", DropPoint: "575+", Weld: "400"},
		},
		QcLogs: []record.QcLog{
			{Batch: "NA100", Code: "507450", Date: day(-38), ReleasedBy: "Jane Doe"},
			{Batch: "NA200", Code: "507460", Date: day(0), ReleasedBy: "Sam Roe"},
		},
		Retains: []record.Retain{
			{Batch: "NA100", Code: 507450, Date: day(-38), Box: 2},
			{Batch: "NA200", Code: 507460, Date: day(0), Box: 3},
		},
		Reminders: []record.Reminder{
			{Batch: "NA100", IntervalType: "weekly", Due: day(-3)},
			{Batch: "NA200", IntervalType: "weekly", Due: day(0)},
			{Batch: "NA300", IntervalType: "monthly", Due: day(9)},
		},
	}
}
