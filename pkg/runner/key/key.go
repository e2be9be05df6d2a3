// Package key prints the legend for reminder statuses and result columns.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
)

// Key prints the legend.
type Key struct {
	Out io.Writer
}

var meanings = map[status.Status]string{
	status.Overdue:  "due day is before today",
	status.DueToday: "due day is today",
	status.Upcoming: "due day is after today",
}

var samples = map[status.Status]int{
	status.Overdue:  -3,
	status.DueToday: 0,
	status.Upcoming: 4,
}

// Do renders the status and column keys.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "")
	k.Statuses(ctx, out)
	_, _ = fmt.Fprintln(out, "")
	k.Columns(ctx, out)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Statuses renders one row per reminder status with a sample label.
func (k *Key) Statuses(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("    Status"), bold.Sprint("Example"), bold.Sprint("Meaning"))
	for _, st := range status.All() {
		tbl.AddRow(st.String(), status.Label(samples[st]), meanings[st])
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}

// Columns renders the optional testing result columns by key.
func (k *Key) Columns(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("    Column"), bold.Sprint("Heading"))
	for _, c := range record.OptionalColumns {
		tbl.AddRow(c.Key, c.Label)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}
