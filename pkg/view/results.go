package view

import (
	"time"

	"tableflip.dev/labdash/pkg/record"
)

// ResultFilter has no categorical filters; results are searched only.
type ResultFilter struct{}

type ResultState = State[record.TestingData, ResultFilter, record.TestingData]

func NewResultState() ResultState {
	return NewState(ProjectResults, ResultFilter{})
}

// ProjectResults keeps fetch order.
func ProjectResults(raw []record.TestingData, search string, _ ResultFilter, _ time.Time) []record.TestingData {
	return keep(raw, func(t record.TestingData) bool {
		return matches(search, t.Batch, t.Code)
	})
}

// DisplayValue renders an empty measurement as a dash.
func DisplayValue(v string) string {
	if v == "" {
		return "--"
	}
	return v
}
