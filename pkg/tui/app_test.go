package tui

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

func init() {
	color.NoColor = true
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	svc := &app.Service{
		Store:    store.New(store.NewMemory()),
		Clock:    func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) },
		Activity: app.NewActivityLog(),
	}
	err := svc.Import(context.Background(), store.Bundle{
		Products: []record.Product{{Code: 507450, Name: "Lithium EP2"}},
		QcLogs: []record.QcLog{
			{Batch: "NA100", Code: "507450", Date: "2024-05-01", ReleasedBy: "Jane Doe"},
			{Batch: "NA200", Code: "507450", Date: "2024-06-01", ReleasedBy: "Sam Roe"},
		},
		Retains: []record.Retain{{ID: 1, Batch: "NA100", Code: 507450, Box: 7}},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	m := New(svc, Options{Debounce: 5 * time.Millisecond})
	t.Cleanup(m.close)
	if err := m.dash.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	m.Update(snapshotMsg{snap: m.dash.Snapshot()})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyPressMsg
		switch k {
		case "esc":
			msg = tea.KeyPressMsg{Code: tea.KeyEscape}
		case "tab":
			msg = tea.KeyPressMsg{Code: tea.KeyTab}
		default:
			r := []rune(k)[0]
			msg = tea.KeyPressMsg{Code: r, Text: k}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestViewShowsCurrentScreen(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	if !strings.Contains(out, "NA100") || !strings.Contains(out, "NA200") {
		t.Fatalf("expected qc releases in view:\n%s", out)
	}

	press(m, "2")
	if m.tab != 1 {
		t.Fatalf("expected retains tab, got %d", m.tab)
	}
	if out := m.View(); !strings.Contains(out, "Retains - 1 retain") || !strings.Contains(out, "Lithium EP2") {
		t.Fatalf("expected retains screen:\n%s", out)
	}

	press(m, "tab", "tab", "tab", "tab")
	if m.tab != 0 {
		t.Fatalf("expected tabs to wrap around, got %d", m.tab)
	}
}

func TestSearchFiltersAndSuggests(t *testing.T) {
	m := newTestModel(t)
	press(m, "/", "n", "a", "2")
	if m.mode != modeSearch || m.input.Value() != "na2" {
		t.Fatalf("expected search mode with na2, got mode %d value %q", m.mode, m.input.Value())
	}
	out := m.View()
	if strings.Contains(out, "NA100") || !strings.Contains(out, "NA200") {
		t.Fatalf("expected screen narrowed to NA200:\n%s", out)
	}

	select {
	case d := <-m.hits:
		m.Update(suggestionsMsg{delivery: d})
	case <-time.After(2 * time.Second):
		t.Fatalf("no suggestions delivered")
	}
	if m.result == nil || len(m.result.Suggestions) == 0 {
		t.Fatalf("expected suggestions, got %+v", m.result)
	}
	if out := stripANSI(m.View()); !strings.Contains(out, "/qc?search=NA200") {
		t.Fatalf("expected suggestion target in view:\n%s", out)
	}

	press(m, "esc")
	if m.mode != modeNormal {
		t.Fatalf("expected esc to leave search mode")
	}
	press(m, "x")
	if m.input.Value() != "" || m.result != nil {
		t.Fatalf("expected x to clear the search")
	}
	if out := m.View(); !strings.Contains(out, "NA100") {
		t.Fatalf("expected full list after clearing:\n%s", out)
	}
}

func TestFooterFitsWidth(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	if w := ansi.PrintableRuneWidth(m.footer()); w > 20 {
		t.Fatalf("footer is %d wide, want at most 20", w)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	if cmd := press(m, "q"); cmd == nil {
		t.Fatalf("expected quit command")
	}
}
