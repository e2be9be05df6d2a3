// Package view derives the filtered, sorted and aggregated lists shown on each
// dashboard screen from raw record snapshots.
//
// Everything here is a pure function of its inputs. Nothing is cached between
// calls and raw slices are never reordered in place.
package view

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/labdash/pkg/datelike"
)

// All is the sentinel filter value that disables a categorical filter.
const All = "all"

// Projector derives a screen's list from its raw records, search term and filters.
type Projector[R, F, D any] func(raw []R, search string, filters F, now time.Time) []D

// State is an immutable per-screen snapshot. The derived list is never stored;
// Derived recomputes it from the other fields on every call.
type State[R, F, D any] struct {
	raw      []R
	search   string
	filters  F
	project  Projector[R, F, D]
	err      error
	loadedAt time.Time
}

// NewState returns an empty state that derives its list through project.
func NewState[R, F, D any](project Projector[R, F, D], filters F) State[R, F, D] {
	return State[R, F, D]{project: project, filters: filters}
}

// WithRaw replaces the raw records wholesale and clears any load error.
func (s State[R, F, D]) WithRaw(raw []R, at time.Time) State[R, F, D] {
	s.raw = append([]R(nil), raw...)
	s.err = nil
	s.loadedAt = at
	return s
}

// WithError flags a failed load while keeping the last good raw records.
func (s State[R, F, D]) WithError(err error) State[R, F, D] {
	s.err = err
	return s
}

func (s State[R, F, D]) WithSearch(term string) State[R, F, D] {
	s.search = term
	return s
}

func (s State[R, F, D]) WithFilters(filters F) State[R, F, D] {
	s.filters = filters
	return s
}

// Raw returns a copy of the raw records in fetch order.
func (s State[R, F, D]) Raw() []R { return append([]R(nil), s.raw...) }

func (s State[R, F, D]) Search() string { return s.search }
func (s State[R, F, D]) Filters() F { return s.filters }
func (s State[R, F, D]) Err() error { return s.err }
func (s State[R, F, D]) LoadedAt() time.Time { return s.loadedAt }

// Loaded reports whether at least one fetch has succeeded.
func (s State[R, F, D]) Loaded() bool { return !s.loadedAt.IsZero() }

// Derived projects the current snapshot.
func (s State[R, F, D]) Derived(now time.Time) []D {
	if s.project == nil {
		return nil
	}
	return s.project(s.raw, s.search, s.filters, now)
}

// matches reports whether any field contains term, ignoring case. An empty
// term matches everything.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// enabled reports whether a categorical filter value should be applied.
func enabled(v string) bool {
	return v != "" && v != All
}

// keep returns the records accepted by pred in their original order.
func keep[R any](raw []R, pred func(R) bool) []R {
	out := make([]R, 0, len(raw))
	for _, r := range raw {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

type dated[R any] struct {
	rec R
	at  time.Time
	ok  bool
}

// sortByDate orders a copy of in by the normalized date of each record.
// Unparseable dates go last; ties keep input order.
func sortByDate[R any](in []R, date func(R) string, loc *time.Location, descending bool) []R {
	items := make([]dated[R], len(in))
	for i, r := range in {
		at, ok := datelike.NormalizeIn(date(r), loc)
		items[i] = dated[R]{rec: r, at: at, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		left, right := items[i], items[j]
		switch {
		case !left.ok:
			return false
		case !right.ok:
			return true
		case descending:
			return left.at.After(right.at)
		default:
			return left.at.Before(right.at)
		}
	})
	out := make([]R, len(items))
	for i := range items {
		out[i] = items[i].rec
	}
	return out
}
