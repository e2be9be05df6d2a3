package timeutil

import "testing"

func TestParseDays(t *testing.T) {
	tests := []struct {
		in    string
		days  int
		label string
	}{
		{"7", 7, "1w"},
		{"-2", -2, "-2d"},
		{"0", 0, "0d"},
		{"10d", 10, "1w3d"},
		{"2w", 14, "2w"},
		{"1w 2d", 9, "1w2d"},
		{"3 Days", 3, "3d"},
	}
	for _, tt := range tests {
		days, label, err := ParseDays(tt.in)
		if err != nil {
			t.Fatalf("ParseDays(%q): unexpected error: %v", tt.in, err)
		}
		if days != tt.days || label != tt.label {
			t.Fatalf("ParseDays(%q) = %d %q, want %d %q", tt.in, days, label, tt.days, tt.label)
		}
	}
}

func TestParseDaysInvalid(t *testing.T) {
	for _, in := range []string{"", "noop", "3h", "1w-2d"} {
		if _, _, err := ParseDays(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
