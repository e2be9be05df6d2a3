package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is matched by every InvalidError.
var ErrInvalid = errors.New("record: invalid input")

// InvalidError reports user input rejected before it reaches storage.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("record: %s: %s", e.Field, e.Reason)
}

func (e *InvalidError) Is(target error) bool { return target == ErrInvalid }

// ParseCodeBatch splits scanner-style retain input such as "507450 NA5001".
func ParseCodeBatch(input string) (int, string, error) {
	parts := strings.Fields(input)
	if len(parts) < 2 {
		return 0, "", &InvalidError{Field: "code-batch", Reason: `expected "<product code> <batch>", e.g. "507450 NA5001"`}
	}
	code, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", &InvalidError{Field: "code-batch", Reason: fmt.Sprintf("product code %q is not a number", parts[0])}
	}
	return code, parts[1], nil
}

// ParseBox validates a retain box number.
func ParseBox(v string) (int, error) {
	box, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &InvalidError{Field: "box", Reason: fmt.Sprintf("%q is not a box number", v)}
	}
	return box, nil
}

// Initials returns up to two upper-case initials for a person's name.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "??"
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(string([]rune(w)[0])))
		if b.Len() >= 2 {
			break
		}
	}
	out := []rune(b.String())
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}
