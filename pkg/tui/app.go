// Package tui is the interactive dashboard: one tab per screen, a search box
// with debounced cross-record suggestions, and live refresh from storage.
package tui

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/runner/get"
	"tableflip.dev/labdash/pkg/search"
)

// maxHits caps the suggestion lines under the search box.
const maxHits = 5

type tab struct {
	kind  record.Kind
	title string
}

var tabs = []tab{
	{record.KindQcLog, "QC"},
	{record.KindRetain, "Retains"},
	{record.KindTesting, "Results"},
	{record.KindBatch, "Batches"},
	{record.KindReminder, "Reminders"},
}

type mode int

const (
	modeNormal mode = iota
	modeSearch
)

type (
	snapshotMsg    struct{ snap *app.Snapshot }
	suggestionsMsg struct{ delivery search.Delivery }
	reloadedMsg    struct{ err error }
	errMsg         struct{ err error }
)

// Options tune refresh and search timing.
type Options struct {
	Refresh  time.Duration
	Debounce time.Duration
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	svc     *app.Service
	dash    *app.Dashboard
	deb     *search.Debouncer
	refresh time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	snaps  chan *app.Snapshot
	hits   chan search.Delivery

	mode     mode
	tab      int
	calendar bool
	input    textinput.Model
	body     viewport.Model
	theme    Theme

	snap     *app.Snapshot
	activity []app.Activity
	result   *search.Result
	status   string
	width    int
	height   int
}

// New builds the model. Nothing is loaded until the program starts.
func New(svc *app.Service, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "batch or product code"
	ti.CharLimit = 64
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:     svc,
		dash:    app.NewDashboard(svc),
		refresh: opts.Refresh,
		ctx:     ctx,
		cancel:  cancel,
		snaps:   make(chan *app.Snapshot, 1),
		hits:    make(chan search.Delivery, 1),
		input:   ti,
		body:    viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
		theme:   DefaultTheme(),
	}
	m.deb = search.NewDebouncer(svc.Search, opts.Debounce, m.deliver, svc.Log, svc.Metrics)
	m.snap = m.dash.Snapshot()
	return m
}

// Init starts the refresh loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.run(), m.waitForSnapshot(), m.waitForSuggestions())
}

func (m *Model) run() tea.Cmd {
	return func() tea.Msg {
		if err := m.dash.Run(m.ctx, m.refresh, m.publish); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (m *Model) publish(snap *app.Snapshot) {
	select {
	case m.snaps <- snap:
	case <-m.ctx.Done():
	}
}

func (m *Model) deliver(d search.Delivery) {
	select {
	case m.hits <- d:
	case <-m.ctx.Done():
	}
}

func (m *Model) waitForSnapshot() tea.Cmd {
	ch := m.snaps
	return func() tea.Msg {
		return snapshotMsg{snap: <-ch}
	}
}

func (m *Model) waitForSuggestions() tea.Cmd {
	ch := m.hits
	return func() tea.Msg {
		return suggestionsMsg{delivery: <-ch}
	}
}

func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		return reloadedMsg{err: m.dash.Reload(m.ctx)}
	}
}

// close stops the refresh loop and any in-flight search.
func (m *Model) close() {
	m.cancel()
	m.deb.Close()
}

// Update handles messages and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-4, 10))
		m.render()
	case snapshotMsg:
		if msg.snap != nil {
			m.snap = msg.snap
			m.loadActivity()
			m.render()
		}
		cmds = append(cmds, m.waitForSnapshot())
	case suggestionsMsg:
		m.applySuggestions(msg.delivery)
		cmds = append(cmds, m.waitForSuggestions())
	case reloadedMsg:
		m.snap = m.dash.Snapshot()
		m.loadActivity()
		m.status = "reloaded " + m.svc.Now().Format("15:04:05")
		if msg.err != nil {
			m.status = "reload incomplete: " + msg.err.Error()
		}
		m.render()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case tea.KeyPressMsg:
		if quit := m.handleKey(msg, &cmds); quit {
			m.close()
			return m, tea.Quit
		}
	default:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		return true
	}
	if m.mode == modeSearch {
		m.handleSearchKey(msg, cmds)
		return false
	}

	switch msg.String() {
	case "q":
		return true
	case "tab", "right", "l":
		m.selectTab(m.tab + 1)
	case "shift+tab", "left", "h":
		m.selectTab(m.tab - 1)
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(msg.String())
		m.selectTab(i - 1)
	case "/":
		m.mode = modeSearch
		*cmds = append(*cmds, m.input.Focus())
		m.render()
	case "x":
		m.input.SetValue("")
		m.search("")
	case "c":
		m.calendar = !m.calendar
		m.render()
	case "r":
		m.status = "reloading..."
		*cmds = append(*cmds, m.reload())
	default:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		*cmds = append(*cmds, cmd)
	}
	return false
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = modeNormal
		m.input.Blur()
		m.render()
		return
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	*cmds = append(*cmds, cmd)
	if after := m.input.Value(); after != before {
		m.search(after)
	}
}

// search narrows the current screen right away and asks the debouncer for
// cross-record suggestions.
func (m *Model) search(term string) {
	if err := m.dash.SetSearch(tabs[m.tab].kind, term); err != nil {
		m.status = "ERR: " + err.Error()
	}
	m.snap = m.dash.Snapshot()
	if strings.TrimSpace(term) == "" {
		m.result = nil
	}
	m.deb.Input(term)
	m.render()
}

func (m *Model) applySuggestions(d search.Delivery) {
	if d.Err != nil {
		m.status = "search failed: " + d.Err.Error()
		m.result = nil
		m.render()
		return
	}
	if strings.TrimSpace(m.input.Value()) == "" {
		m.result = nil
	} else {
		res := d.Result
		m.result = &res
	}
	m.render()
}

func (m *Model) selectTab(i int) {
	n := len(tabs)
	m.tab = ((i % n) + n) % n
	// Carry the search box over to the new screen.
	if err := m.dash.SetSearch(tabs[m.tab].kind, m.input.Value()); err == nil {
		m.snap = m.dash.Snapshot()
	}
	m.render()
	m.body.GotoTop()
}

// loadActivity rereads the shelf history. Retains added by other processes
// show up with the next snapshot.
func (m *Model) loadActivity() {
	recent, err := m.svc.Activity.Recent(m.ctx)
	if err != nil {
		m.status = "activity: " + err.Error()
	}
	m.activity = recent
}

// render refreshes the body content and sizes it to what the chrome leaves.
func (m *Model) render() {
	var buf bytes.Buffer
	v := get.View{Kind: tabs[m.tab].kind, Calendar: m.calendar}
	if err := get.Render(&buf, m.snap, m.activity, v, m.svc.Now()); err != nil {
		buf.Reset()
		buf.WriteString(m.theme.Error.Render(err.Error()))
	}
	m.body.SetContent(buf.String())

	if m.width > 0 {
		m.body.SetWidth(m.width)
	}
	if m.height > 0 {
		m.body.SetHeight(max(m.height-len(m.chrome()), 1))
	}
}

// chrome is every line drawn around the body.
func (m *Model) chrome() []string {
	lines := []string{m.tabBar()}
	if m.mode == modeSearch || m.input.Value() != "" {
		lines = append(lines, m.theme.Prompt.Render("/ ")+m.input.View())
		lines = append(lines, m.hitLines()...)
	}
	lines = append(lines, m.footer())
	return lines
}

func (m *Model) tabBar() string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		style := m.theme.Tab
		if i == m.tab {
			style = m.theme.ActiveTab
		}
		parts = append(parts, style.Render(strconv.Itoa(i+1)+" "+t.title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) hitLines() []string {
	if m.result == nil {
		return nil
	}
	var lines []string
	for i, s := range m.result.Suggestions {
		if i == maxHits {
			break
		}
		lines = append(lines, "  "+m.theme.Hit.Render(s.Label)+"  "+m.theme.Target.Render(s.Target))
	}
	if len(m.result.Suggestions) == 0 {
		lines = append(lines, m.theme.Status.Render("  no matches"))
	}
	if m.result.Partial() {
		failed := make([]string, 0, len(m.result.Failed))
		for _, k := range m.result.Failed {
			failed = append(failed, k.String())
		}
		lines = append(lines, m.theme.Error.Render("  failed: "+strings.Join(failed, ", ")))
	}
	return lines
}

func (m *Model) footer() string {
	help := "tab/1-5 screens · / search · x clear · c calendar · r reload · q quit"
	if m.mode == modeSearch {
		help = "enter/esc done"
	}
	line := m.theme.Help.Render(help)
	if m.status != "" {
		line += "  " + m.theme.Status.Render(m.status)
	}
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width), "…")
	}
	return line
}

// View draws the tab bar, the current screen and the search box.
func (m *Model) View() string {
	lines := m.chrome()
	sections := []string{lines[0], m.body.View()}
	return strings.Join(append(sections, lines[1:]...), "\n")
}

// Run launches the interactive dashboard.
func Run(svc *app.Service, opts Options) error {
	m := New(svc, opts)
	defer m.close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
