package record

import (
	"errors"
	"testing"
)

func TestParseCodeBatch(t *testing.T) {
	code, batch, err := ParseCodeBatch("  507450   NA5001 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 507450 || batch != "NA5001" {
		t.Fatalf("unexpected parse: %d %q", code, batch)
	}

	for _, input := range []string{"", "507450", "abc NA5001"} {
		if _, _, err := ParseCodeBatch(input); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected invalid input error for %q, got %v", input, err)
		}
	}
}

func TestParseBox(t *testing.T) {
	if box, err := ParseBox(" 12 "); err != nil || box != 12 {
		t.Fatalf("expected 12, got %d %v", box, err)
	}
	if _, err := ParseBox("twelve"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid box error, got %v", err)
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"":                "??",
		"jane":            "J",
		"Jane Doe":        "JD",
		"mary ann weaver": "MA",
	}
	for in, want := range tests {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestColumnsByKey(t *testing.T) {
	cols, unknown := ColumnsByKey([]string{"rust", "pen0x", "bogus"})
	if len(cols) != 2 || cols[0].Key != "pen0x" || cols[1].Key != "rust" {
		t.Fatalf("expected catalog order [pen0x rust], got %+v", cols)
	}
	if len(unknown) != 1 || unknown[0] != "bogus" {
		t.Fatalf("expected bogus to be reported, got %v", unknown)
	}
	if got := cols[1].Value(TestingData{Rust: "pass"}); got != "pass" {
		t.Fatalf("expected column value pass, got %q", got)
	}
	all, _ := ColumnsByKey([]string{"all"})
	if len(all) != len(OptionalColumns) {
		t.Fatalf("expected all columns, got %d", len(all))
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Testing"); err != nil || k != KindTesting {
		t.Fatalf("expected results kind, got %q %v", k, err)
	}
	if _, err := ParseKind("orders"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
