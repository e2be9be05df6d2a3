package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/shopspring/decimal"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/datelike"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/search"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

// PrettyPrint renders dashboard screens as terminal tables.
type PrettyPrint struct {
	Out     io.Writer
	Catalog view.Catalog
	// Location is used to render and bucket dates. Defaults to time.Local.
	Location *time.Location
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) loc() *time.Location {
	if pp.Location == nil {
		return time.Local
	}
	return pp.Location
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out())
}

// Stats prints a line of label/value pairs.
func (pp *PrettyPrint) Stats(pairs ...string) {
	f := color.New(color.Faint)
	b := color.New(color.Bold)
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			_, _ = f.Fprint(pp.out(), "  ·  ")
		}
		_, _ = f.Fprintf(pp.out(), "%s ", pairs[i])
		_, _ = b.Fprint(pp.out(), pairs[i+1])
	}
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Stale warns that a screen is showing its last good data.
func (pp *PrettyPrint) Stale(err error) {
	if err == nil {
		return
	}
	w := color.New(color.FgYellow, color.Italic)
	_, _ = w.Fprintf(pp.out(), "showing last loaded data: %v\n", err)
}

func newTable(header ...interface{}) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold).SprintFunc()
	for i := range header {
		header[i] = bold(header[i])
	}
	tbl.AddRow(header...)
	return tbl
}

func (pp *PrettyPrint) table(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) date(v string) string {
	return datelike.FormatIn(v, pp.loc())
}

func (pp *PrettyPrint) QcLogs(logs []record.QcLog, stats view.QcStats) {
	pp.TitleWithCount("QC Releases", len(logs), "release")
	pp.Stats("released today", strconv.Itoa(stats.ReleasedToday), "total", strconv.Itoa(stats.Total))
	if len(logs) == 0 {
		pp.none()
		return
	}
	tbl := newTable("Batch", "Product", "Suffix", "60X Pen", "Drop Point", "Released", "By")
	for _, l := range logs {
		by := view.DisplayValue(l.ReleasedBy)
		if l.ReleasedBy != "" {
			by = record.Initials(l.ReleasedBy)
		}
		tbl.AddRow(l.Batch, pp.Catalog.Name(l.Code), view.DisplayValue(l.Suffix),
			view.DisplayValue(l.Pen60x), view.DisplayValue(l.DropPoint), pp.date(l.Date), by)
	}
	pp.table(tbl)
}

func (pp *PrettyPrint) Retains(retains []record.Retain, stats view.RetainStats) {
	pp.TitleWithCount("Retains", len(retains), "retain")
	pp.Stats("active", strconv.Itoa(stats.Active), "boxes", strconv.Itoa(stats.ActiveBoxes))
	if len(retains) == 0 {
		pp.none()
		return
	}
	tbl := newTable("ID", "Box", "Batch", "Product", "Date")
	for _, r := range retains {
		tbl.AddRow(r.ID, r.Box, r.Batch, pp.Catalog.NameFor(r.Code), pp.date(r.Date))
	}
	pp.table(tbl)
}

func (pp *PrettyPrint) Activity(items []app.Activity) {
	if len(items) == 0 {
		return
	}
	pp.Title("Recent activity")
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	for _, a := range items {
		c := added
		if a.Action != app.ActionAdded {
			c = removed
		}
		_, _ = c.Fprintf(pp.out(), "%-8s", string(a.Action))
		_, _ = fmt.Fprintf(pp.out(), "%s (%s) box %d  %s\n",
			a.Batch, pp.Catalog.NameFor(a.Code), a.Box, a.At.In(pp.loc()).Format("15:04"))
	}
	pp.NewLine()
}

// Results prints the fixed result columns followed by cols.
func (pp *PrettyPrint) Results(rows []record.TestingData, cols []record.Column) {
	pp.TitleWithCount("Testing Results", len(rows), "batch")
	if len(rows) == 0 {
		pp.none()
		return
	}
	header := []interface{}{"Batch", "Product", "Date", "60X Pen", "Drop Point"}
	for _, c := range cols {
		header = append(header, c.Label)
	}
	tbl := newTable(header...)
	for _, r := range rows {
		row := []interface{}{r.Batch, pp.Catalog.Name(r.Code), pp.date(r.Date),
			view.DisplayValue(r.Pen60x), view.DisplayValue(r.DropPoint)}
		for _, c := range cols {
			row = append(row, view.DisplayValue(c.Value(r)))
		}
		tbl.AddRow(row...)
	}
	pp.table(tbl)
}

func pounds(d decimal.Decimal) string {
	return d.StringFixed(0) + " lbs"
}

func (pp *PrettyPrint) Batches(batches []record.MonthlyBatch, stats view.BatchStats) {
	pp.TitleWithCount("Batches", len(batches), "batch")
	pp.Stats("released", strconv.Itoa(stats.Released), "total", pounds(stats.TotalPounds))
	if len(batches) == 0 {
		pp.none()
		return
	}
	tbl := newTable("Batch", "Product", "Type", "Start", "End", "Lbs", "Released")
	for _, b := range batches {
		tbl.AddRow(b.Batch, pp.Catalog.NameFor(b.Code), view.DisplayValue(b.Type),
			pp.date(b.DateStart), pp.date(b.DateEnd), decimal.NewFromFloat(b.Lbs).StringFixed(0),
			view.DisplayValue(b.Released))
	}
	pp.table(tbl)
}

func (pp *PrettyPrint) Production(year int, months []view.MonthlyStats) {
	pp.Title(fmt.Sprintf("Production %d", year))
	tbl := newTable("Month", "Batches", "Released", "Rework")
	for _, m := range months {
		tbl.AddRow(m.MonthName, m.BatchCount, pounds(m.TotalPounds), pounds(m.ReworkPounds))
	}
	released, rework := view.ProductionTotals(months)
	bold := color.New(color.Bold).SprintFunc()
	tbl.AddRow(bold("Total"), "", bold(pounds(released)), bold(pounds(rework)))
	pp.table(tbl)
}

var statusColors = map[status.Status]*color.Color{
	status.Overdue:  color.New(color.FgRed, color.Bold),
	status.DueToday: color.New(color.FgYellow, color.Bold),
	status.Upcoming: color.New(color.FgGreen),
}

func statusColor(st status.Status) *color.Color {
	if c, ok := statusColors[st]; ok {
		return c
	}
	return color.New(color.Faint)
}

func (pp *PrettyPrint) Reminders(reminders []view.ClassifiedReminder, stats view.ReminderStats) {
	pp.TitleWithCount("Reminders", len(reminders), "reminder")
	pairs := []string{"overdue", strconv.Itoa(stats.Overdue), "due today", strconv.Itoa(stats.DueToday),
		"upcoming", strconv.Itoa(stats.Upcoming)}
	if stats.Unscheduled > 0 {
		pairs = append(pairs, "unscheduled", strconv.Itoa(stats.Unscheduled))
	}
	pp.Stats(pairs...)
	if len(reminders) == 0 {
		pp.none()
		return
	}
	tbl := newTable("ID", "Batch", "Product", "Interval", "Due", "Status")
	for _, r := range reminders {
		label := statusColor(r.Status).Sprint(r.Label())
		tbl.AddRow(r.ReminderID, r.Batch, pp.Catalog.NameFor(r.Code), r.IntervalType, pp.date(r.Due), label)
	}
	pp.table(tbl)
}

// Suggestions prints search hits, with a note when some sources failed.
func (pp *PrettyPrint) Suggestions(res search.Result) {
	if len(res.Suggestions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintf(pp.out(), "no matches for %q\n", res.Query)
	}
	link := color.New(color.Faint)
	for _, s := range res.Suggestions {
		_, _ = fmt.Fprintf(pp.out(), "%s  ", s.Label)
		_, _ = link.Fprintln(pp.out(), s.Target)
	}
	if res.Partial() {
		kinds := make([]string, len(res.Failed))
		for i, k := range res.Failed {
			kinds[i] = k.String()
		}
		w := color.New(color.FgYellow, color.Italic)
		_, _ = w.Fprintf(pp.out(), "results incomplete, failed: %s\n", strings.Join(kinds, ", "))
	}
}
