package datelike

import (
	"testing"
	"time"
)

func TestNormalizePatterns(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
	}{
		{"iso", "2024-03-05"},
		{"slash", "3/5/2024"},
		{"year first short", "2024-3-5"},
		{"dash month first", "3-5-2024"},
		{"padded", "  03/05/2024 "},
		{"textual", "Mar 5, 2024"},
		{"range uses left", "3/5/2024 - 3/9/2024"},
		{"range of dashed dates", "3-5-2024 - 3-9-2024"},
		{"unspaced range", "3/5/2024-3/9/2024"},
		{"unspaced range of iso dates", "2024-03-05-2024-03-09"},
		{"unspaced range of dashed dates", "3-5-2024-3-9-2024"},
		{"long month without comma", "March 5 2024"},
		{"year first slashes", "2024/03/05"},
		{"year first short slashes", "2024/3/5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeIn(tt.input, time.UTC)
			if !ok {
				t.Fatalf("expected %q to parse", tt.input)
			}
			if !got.Equal(want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "2/30/2024", "13/1/2024", "2024-13-01", "2024", "N/A - pending"} {
		if got, ok := NormalizeIn(input, time.UTC); ok {
			t.Fatalf("expected %q to be unparseable, got %v", input, got)
		}
	}
}

func TestNormalizeIdempotentOnISO(t *testing.T) {
	first, ok := NormalizeIn("2023-11-30", time.UTC)
	if !ok {
		t.Fatalf("expected iso input to parse")
	}
	second, ok := NormalizeIn(ISO(first), time.UTC)
	if !ok || !second.Equal(first) {
		t.Fatalf("expected re-normalizing %s to give %v, got %v", ISO(first), first, second)
	}
}

func TestNormalizeInstant(t *testing.T) {
	got, ok := NormalizeIn("2024-03-05T10:30:00Z", time.UTC)
	if !ok {
		t.Fatalf("expected RFC3339 input to parse")
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Fatalf("expected time of day preserved, got %v", got)
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := []string{"-", " - ", "--", "1/1/", "/1/2024", "9999-99-99", "0/0/0000", "\x00", "2024-02-29", "- 3/5/2024"}
	for _, input := range inputs {
		_, _ = NormalizeIn(input, time.UTC)
		_ = FormatIn(input, time.UTC)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3/5/2024", "Mar 5, 2024"},
		{"2024-3-5", "Mar 5, 2024"},
		{"not-a-date", "not-a-date"},
		{"", "--"},
		{"3/5/2024 - 3/9/2024", "Mar 5, 2024 - Mar 9, 2024"},
		{"3/5/2024 - later", "3/5/2024 - later"},
		{"3/5/2024-3/9/2024", "Mar 5, 2024 - Mar 9, 2024"},
		{"2024/03/05", "Mar 5, 2024"},
	}
	for _, tt := range tests {
		if got := FormatIn(tt.input, time.UTC); got != tt.want {
			t.Fatalf("FormatIn(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestSplitRange(t *testing.T) {
	left, right, ok := SplitRange("1/2/2024 -1/5/2024")
	if !ok || left != "1/2/2024" || right != "1/5/2024" {
		t.Fatalf("unexpected split: %q %q %v", left, right, ok)
	}
	for _, single := range []string{"2024-01-02", "1-2-2024", "2024-01-02T10:00:00-05:00", "not-a-date"} {
		if _, _, ok := SplitRange(single); ok {
			t.Fatalf("%q must not be treated as a range", single)
		}
	}
	left, right, ok = SplitRange("2024-01-02-2024-01-05")
	if !ok || left != "2024-01-02" || right != "2024-01-05" {
		t.Fatalf("unexpected unspaced split: %q %q %v", left, right, ok)
	}
}
