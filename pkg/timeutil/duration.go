package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spanPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitDays    = map[string]int{
		"d":     1,
		"day":   1,
		"days":  1,
		"w":     7,
		"wk":    7,
		"wks":   7,
		"week":  7,
		"weeks": 7,
	}
)

// ParseDays parses a human-friendly day span such as "3", "10d", "2w" or
// "1w2d" and returns the number of days along with a compact label. A bare
// integer may be negative.
func ParseDays(input string) (int, string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return 0, "", fmt.Errorf("day span is required")
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, FormatDays(n), nil
	}

	remaining := trimmed
	total := 0
	for len(remaining) > 0 {
		matches := spanPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid day span segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("invalid day span value %q: %w", matches[1], err)
		}
		per, ok := unitDays[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported day span unit %q (use d or w)", matches[2])
		}
		total += value * per
		remaining = remaining[len(matches[0]):]
	}
	return total, FormatDays(total), nil
}

// FormatDays renders a day count using week and day tokens.
func FormatDays(days int) string {
	if days == 0 {
		return "0d"
	}
	sign := ""
	if days < 0 {
		sign = "-"
		days = -days
	}
	var parts []string
	if w := days / 7; w > 0 {
		parts = append(parts, fmt.Sprintf("%dw", w))
	}
	if d := days % 7; d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	return sign + strings.Join(parts, "")
}
