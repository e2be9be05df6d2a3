package options

import (
	"bytes"
	"strings"
	"testing"

	"tableflip.dev/labdash/pkg/offset"
)

func TestParseID(t *testing.T) {
	for in, want := range map[string]int{"12": 12, "RM-0012": 12, " 7 ": 7} {
		got, err := ParseID(in)
		if err != nil || got != want {
			t.Fatalf("ParseID(%q) = %d %v, want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "RM-", "abc", "0"} {
		if _, err := ParseID(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}

	o := &IDOptions{}
	if id, err := o.GetID([]string{"RM-0003"}); err != nil || id != 3 {
		t.Fatalf("GetID from args = %d %v", id, err)
	}
	if _, err := o.GetID(nil); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestScheduleRequest(t *testing.T) {
	req, err := (&ScheduleOptions{InString: "1w"}).Request()
	if err != nil || req.Mode != offset.ModeOffset || *req.DayOffset != 7 {
		t.Fatalf("unexpected request %+v %v", req, err)
	}
	req, err = (&ScheduleOptions{OnString: "6/28/2024"}).Request()
	if err != nil || req.Mode != offset.ModeTargetDate || req.TargetDate != "6/28/2024" {
		t.Fatalf("unexpected request %+v %v", req, err)
	}
	req, err = (&ScheduleOptions{}).Request()
	if err != nil || req != (offset.Request{}) {
		t.Fatalf("expected empty request, got %+v %v", req, err)
	}
	if _, err := (&ScheduleOptions{InString: "2", OnString: "6/28/2024"}).Request(); err == nil {
		t.Fatalf("expected conflicting flags to be rejected")
	}
	if _, err := (&ScheduleOptions{InString: "soon"}).Request(); err == nil {
		t.Fatalf("expected bad span to be rejected")
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, map[string]int{"total": 2}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(buf.String(), `"total": 2`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
