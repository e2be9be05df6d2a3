package view

import (
	"sort"
	"strconv"
	"time"

	"tableflip.dev/labdash/pkg/record"
)

// RetainFilter narrows the retain list. A nil Box shows every box.
type RetainFilter struct {
	Box *int
}

type RetainStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	ActiveBoxes int `json:"activeBoxes"`
	Expiring    int `json:"expiring"`
	Expired     int `json:"expired"`
}

type RetainState = State[record.Retain, RetainFilter, record.Retain]

func NewRetainState() RetainState {
	return NewState(ProjectRetains, RetainFilter{})
}

// ProjectRetains filters by batch/code and box, ordered by box number.
func ProjectRetains(raw []record.Retain, search string, f RetainFilter, _ time.Time) []record.Retain {
	out := keep(raw, func(r record.Retain) bool {
		if !matches(search, r.Batch, strconv.Itoa(r.Code)) {
			return false
		}
		return f.Box == nil || r.Box == *f.Box
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Box < out[j].Box })
	return out
}

// RetainsStats summarizes the shelf. Retains carry no expiry yet, so every
// retain counts as active.
func RetainsStats(raw []record.Retain) RetainStats {
	return RetainStats{
		Total:       len(raw),
		Active:      len(raw),
		ActiveBoxes: len(BoxOptions(raw)),
	}
}

// BoxOptions lists the distinct box numbers in ascending order.
func BoxOptions(raw []record.Retain) []int {
	seen := make(map[int]bool)
	var boxes []int
	for _, r := range raw {
		if !seen[r.Box] {
			seen[r.Box] = true
			boxes = append(boxes, r.Box)
		}
	}
	sort.Ints(boxes)
	return boxes
}
