// Package offset turns reminder scheduling input into a signed day offset
// relative to today.
package offset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/status"
)

// Mode selects which input drives the offset.
type Mode string

const (
	// ModeNone means no scheduling input was given; the reminder is due today.
	ModeNone Mode = ""
	// ModeOffset uses DayOffset verbatim.
	ModeOffset Mode = "offset"
	// ModeTargetDate counts days from today to TargetDate.
	ModeTargetDate Mode = "target-date"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("offset: invalid input")

// ValidationError describes rejected resolver input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("offset: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Request carries the user's scheduling input.
type Request struct {
	Mode       Mode
	DayOffset  *int
	TargetDate string
}

// Resolve returns the number of days between today and the requested due day.
// Negative values describe reminders that are already due.
func Resolve(req Request, today time.Time) (int, error) {
	mode := req.Mode
	if mode == ModeNone {
		switch {
		case req.DayOffset != nil:
			mode = ModeOffset
		case strings.TrimSpace(req.TargetDate) != "":
			mode = ModeTargetDate
		default:
			return 0, nil
		}
	}

	switch mode {
	case ModeOffset:
		if req.DayOffset == nil {
			return 0, &ValidationError{Field: "offset", Reason: "day offset is required"}
		}
		return *req.DayOffset, nil
	case ModeTargetDate:
		raw := strings.TrimSpace(req.TargetDate)
		if raw == "" {
			return 0, &ValidationError{Field: "date", Reason: "target date is required"}
		}
		target, ok := datelike.NormalizeIn(raw, today.Location())
		if !ok {
			return 0, &ValidationError{Field: "date", Reason: fmt.Sprintf("cannot parse %q", raw)}
		}
		return Between(today, target), nil
	default:
		return 0, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}

// Between rounds the midnight-to-midnight distance to the nearest whole day so
// 23 or 25 hour days around DST changes still count as one.
func Between(today, target time.Time) int {
	loc := today.Location()
	from := status.Day(today, loc)
	to := status.Day(target, loc)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// DueDate is the calendar day that lies offset days after today.
func DueDate(today time.Time, offset int) time.Time {
	return status.Day(today, today.Location()).AddDate(0, 0, offset)
}
