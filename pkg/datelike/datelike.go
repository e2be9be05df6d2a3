// Package datelike parses the loosely formatted date strings found in lab
// records into comparable instants.
package datelike

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the layout used when rendering a parsed date.
const DisplayLayout = "Jan 2, 2006"

// Empty is rendered in place of a blank date.
const Empty = "--"

var (
	// A spaced dash always separates a range. Unspaced ranges are found by
	// SplitRange.
	rangePattern = regexp.MustCompile(`^(.+?)(?:\s+-\s*|\s*-\s+)(.+)$`)

	slashMDY = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dashYMD  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dashMDY  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)

	nativeDateLayouts = []string{
		"2006-01-02",
		"2006/1/2",
		"January 2, 2006",
		"January 2 2006",
		"Jan 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"2 January 2006",
		"Mon Jan 2 2006",
		"Monday, January 2, 2006",
	}
	nativeInstantLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
	}
)

// matcher attempts one parse strategy. It never fails loudly: a miss is
// reported through the boolean.
type matcher func(s string, loc *time.Location) (time.Time, bool)

// matchers run in order and the first hit wins.
var matchers = []matcher{
	native,
	numeric(slashMDY, monthFirst),
	numeric(dashYMD, yearFirst),
	numeric(dashMDY, monthFirst),
}

// Normalize parses input in the local time zone. For ranges ("A - B") only the
// left side is used.
func Normalize(input string) (time.Time, bool) {
	return NormalizeIn(input, time.Local)
}

// NormalizeIn is Normalize with an explicit location for date-only inputs.
func NormalizeIn(input string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	if left, _, ok := SplitRange(s); ok {
		return parseSingle(left, loc)
	}
	return parseSingle(s, loc)
}

// SplitRange reports the two sides of a "A - B" range. Without spaces, as in
// "3/5/2024-3/9/2024", the range splits at the first dash whose left side is
// a whole date. A string that is itself one date, like "2024-3-5", is never
// split.
func SplitRange(input string) (string, string, bool) {
	s := strings.TrimSpace(input)
	if m := rangePattern.FindStringSubmatch(s); len(m) == 3 {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
	}
	if _, ok := parseSingle(s, time.UTC); ok {
		return "", "", false
	}
	for i := strings.IndexByte(s, '-'); i >= 0; {
		left, right := s[:i], s[i+1:]
		if right == "" {
			break
		}
		if _, ok := parseSingle(left, time.UTC); ok {
			return left, right, true
		}
		next := strings.IndexByte(right, '-')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", "", false
}

// Format renders input for display. Ranges are rendered "A - B" when both
// sides parse. Anything unparseable comes back untouched.
func Format(input string) string {
	return FormatIn(input, time.Local)
}

// FormatIn is Format with an explicit location.
func FormatIn(input string, loc *time.Location) string {
	if strings.TrimSpace(input) == "" {
		return Empty
	}
	if left, right, ok := SplitRange(input); ok {
		start, okStart := parseSingle(left, loc)
		end, okEnd := parseSingle(right, loc)
		if okStart && okEnd {
			return start.Format(DisplayLayout) + " - " + end.Format(DisplayLayout)
		}
	}
	t, ok := parseSingle(strings.TrimSpace(input), loc)
	if !ok {
		return input
	}
	return t.Format(DisplayLayout)
}

// ISO renders t as a YYYY-MM-DD date.
func ISO(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseSingle(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, m := range matchers {
		if t, ok := m(s, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func native(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range nativeDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	for _, layout := range nativeInstantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

type fieldOrder int

const (
	monthFirst fieldOrder = iota
	yearFirst
)

func numeric(pattern *regexp.Regexp, order fieldOrder) matcher {
	return func(s string, loc *time.Location) (time.Time, bool) {
		m := pattern.FindStringSubmatch(s)
		if len(m) != 4 {
			return time.Time{}, false
		}
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])
		year, month, day := c, a, b
		if order == yearFirst {
			year, month, day = a, b, c
		}
		return calendarDate(year, month, day, loc)
	}
}

// calendarDate rejects dates that time.Date would silently roll over.
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
