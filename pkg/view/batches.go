package view

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/record"
)

// ReworkType is the batch type whose pounds are reported as rework.
const ReworkType = "rework"

// BatchFilter narrows the batch list by type and release state.
type BatchFilter struct {
	Type     string
	Released string
}

// BatchStats totals pounds with exact decimal arithmetic so summed weights do
// not pick up float noise.
type BatchStats struct {
	Total       int                        `json:"total"`
	Released    int                        `json:"released"`
	TotalPounds decimal.Decimal            `json:"totalPounds"`
	ByType      map[string]decimal.Decimal `json:"byType"`
}

type BatchState = State[record.MonthlyBatch, BatchFilter, record.MonthlyBatch]

func NewBatchState() BatchState {
	return NewState(ProjectBatches, BatchFilter{Type: All, Released: All})
}

// ProjectBatches filters by batch/type/code and the categorical filters,
// latest start date first.
func ProjectBatches(raw []record.MonthlyBatch, search string, f BatchFilter, now time.Time) []record.MonthlyBatch {
	out := keep(raw, func(b record.MonthlyBatch) bool {
		if !matches(search, b.Batch, b.Type, strconv.Itoa(b.Code)) {
			return false
		}
		if enabled(f.Type) && !strings.EqualFold(b.Type, f.Type) {
			return false
		}
		return !enabled(f.Released) || b.Released == f.Released
	})
	return sortByDate(out, func(b record.MonthlyBatch) string { return b.DateStart }, now.Location(), true)
}

// BatchesStats aggregates the projected list.
func BatchesStats(projected []record.MonthlyBatch) BatchStats {
	stats := BatchStats{
		Total:       len(projected),
		TotalPounds: decimal.Zero,
		ByType:      make(map[string]decimal.Decimal),
	}
	for _, b := range projected {
		lbs := decimal.NewFromFloat(b.Lbs)
		stats.TotalPounds = stats.TotalPounds.Add(lbs)
		key := strings.ToLower(strings.TrimSpace(b.Type))
		stats.ByType[key] = stats.ByType[key].Add(lbs)
		if isReleased(b.Released) {
			stats.Released++
		}
	}
	return stats
}

func isReleased(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "no", "n", "false", "pending", "hold":
		return false
	}
	return true
}

// MonthlyStats is one month of production output.
type MonthlyStats struct {
	Month        int             `json:"month"`
	MonthName    string          `json:"monthName"`
	TotalPounds  decimal.Decimal `json:"totalPounds"`
	ReworkPounds decimal.Decimal `json:"reworkPounds"`
	BatchCount   int             `json:"batchCount"`
}

// ProductionByMonth buckets batches of the given year by start month. All
// twelve months are returned; rework batches are tallied separately.
func ProductionByMonth(raw []record.MonthlyBatch, year int, loc *time.Location) []MonthlyStats {
	months := make([]MonthlyStats, 12)
	for i := range months {
		months[i] = MonthlyStats{
			Month:        i + 1,
			MonthName:    time.Month(i + 1).String(),
			TotalPounds:  decimal.Zero,
			ReworkPounds: decimal.Zero,
		}
	}
	for _, b := range raw {
		start, ok := datelike.NormalizeIn(b.DateStart, loc)
		if !ok || start.Year() != year {
			continue
		}
		m := &months[start.Month()-1]
		lbs := decimal.NewFromFloat(b.Lbs)
		m.BatchCount++
		if strings.EqualFold(strings.TrimSpace(b.Type), ReworkType) {
			m.ReworkPounds = m.ReworkPounds.Add(lbs)
			continue
		}
		m.TotalPounds = m.TotalPounds.Add(lbs)
	}
	return months
}

// ProductionTotals sums released and rework pounds across months.
func ProductionTotals(months []MonthlyStats) (released, rework decimal.Decimal) {
	released, rework = decimal.Zero, decimal.Zero
	for _, m := range months {
		released = released.Add(m.TotalPounds)
		rework = rework.Add(m.ReworkPounds)
	}
	return released, rework
}

// DefaultYear picks the year shown first: the current year when it has
// batches, else the newest year that does, else the current year.
func DefaultYear(years []int, now time.Time) int {
	for _, y := range years {
		if y == now.Year() {
			return y
		}
	}
	if len(years) > 0 {
		return years[0]
	}
	return now.Year()
}

// AvailableYears lists the years that have at least one parseable batch start, newest first.
func AvailableYears(raw []record.MonthlyBatch, loc *time.Location) []int {
	seen := make(map[int]bool)
	var years []int
	for _, b := range raw {
		start, ok := datelike.NormalizeIn(b.DateStart, loc)
		if !ok || seen[start.Year()] {
			continue
		}
		seen[start.Year()] = true
		years = append(years, start.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
