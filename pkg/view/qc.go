package view

import (
	"time"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
)

// QcFilter narrows the QC release list.
type QcFilter struct {
	ReleasedBy string
}

// QcStats are the QC screen's headline numbers. Both are computed over the
// full raw list so the KPI does not move with the search box.
type QcStats struct {
	ReleasedToday int `json:"releasedToday"`
	Total         int `json:"total"`
}

// QcState is the QC screen snapshot.
type QcState = State[record.QcLog, QcFilter, record.QcLog]

// NewQcState returns an empty QC snapshot with no filters applied.
func NewQcState() QcState {
	return NewState(ProjectQcLogs, QcFilter{ReleasedBy: All})
}

// ProjectQcLogs filters by batch/code and releaser, newest release first.
func ProjectQcLogs(raw []record.QcLog, search string, f QcFilter, now time.Time) []record.QcLog {
	logs := keep(raw, func(l record.QcLog) bool {
		if !matches(search, l.Batch, l.Code) {
			return false
		}
		return !enabled(f.ReleasedBy) || l.ReleasedBy == f.ReleasedBy
	})
	return sortByDate(logs, func(l record.QcLog) string { return l.Date }, now.Location(), true)
}

// QcLogStats counts releases dated today.
func QcLogStats(raw []record.QcLog, now time.Time) QcStats {
	loc := now.Location()
	today := status.Day(now, loc)
	stats := QcStats{Total: len(raw)}
	for _, l := range raw {
		at, ok := datelike.NormalizeIn(l.Date, loc)
		if !ok {
			continue
		}
		if status.Day(at, loc).Equal(today) {
			stats.ReleasedToday++
		}
	}
	return stats
}

// ReleasedByOptions lists distinct non-empty releasers in first-seen order.
func ReleasedByOptions(raw []record.QcLog) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range raw {
		if l.ReleasedBy == "" || seen[l.ReleasedBy] {
			continue
		}
		seen[l.ReleasedBy] = true
		out = append(out, l.ReleasedBy)
	}
	return out
}
