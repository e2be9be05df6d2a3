package get

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/printers"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/view"
)

// Get renders one dashboard screen.
type Get struct {
	Service *app.Service
	Kind    record.Kind
	Search  string

	QC        view.QcFilter
	Retains   view.RetainFilter
	Batches   view.BatchFilter
	Reminders view.ReminderFilter
	// Columns are the optional result columns to show.
	Columns []string
	// Calendar prints reminders as a month grid instead of a table.
	Calendar bool

	JSON bool
	Out  io.Writer
}

// Screen is the JSON form of a rendered screen.
type Screen struct {
	Kind     record.Kind    `json:"kind"`
	Items    interface{}    `json:"items"`
	Stats    interface{}    `json:"stats,omitempty"`
	Activity []app.Activity `json:"activity,omitempty"`
	Stale    string         `json:"stale,omitempty"`
	LoadedAt time.Time      `json:"loadedAt"`
}

// View picks a screen and how to format it.
type View struct {
	Kind     record.Kind
	Columns  []string
	Calendar bool
	JSON     bool
}

func (g *Get) Do(ctx context.Context) error {
	if g.Service == nil {
		return errors.New("can not get, no persistence")
	}

	d := app.NewDashboard(g.Service)
	// Failures surface per screen, as stale data or a load error.
	_ = d.Reload(ctx, g.Kind, record.KindProduct)
	if err := d.SetSearch(g.Kind, g.Search); err != nil {
		return err
	}
	d.SetQcFilter(g.QC)
	d.SetRetainFilter(g.Retains)
	d.SetBatchFilter(g.Batches)
	d.SetReminderFilter(g.Reminders)

	var recent []app.Activity
	if g.Kind == record.KindRetain {
		// An unreadable history only hides the activity list.
		recent, _ = g.Service.Activity.Recent(ctx)
	}
	v := View{Kind: g.Kind, Columns: g.Columns, Calendar: g.Calendar, JSON: g.JSON}
	return Render(g.Out, d.Snapshot(), recent, v, g.Service.Now())
}

// Render writes one screen of snap. A screen that has never loaded is an
// error; a screen whose latest reload failed is shown with a stale note over
// the last good data.
func Render(w io.Writer, snap *app.Snapshot, activity []app.Activity, v View, now time.Time) error {
	pp := &printers.PrettyPrint{Out: w, Catalog: snap.Catalog, Location: now.Location()}
	screen := Screen{Kind: v.Kind}
	var (
		ok       bool
		stateErr error
		show     func()
	)

	switch v.Kind {
	case record.KindQcLog:
		s := snap.QC
		ok, stateErr, screen.LoadedAt = s.Loaded(), s.Err(), s.LoadedAt()
		logs := s.Derived(now)
		stats := view.QcLogStats(s.Raw(), now)
		screen.Items, screen.Stats = logs, stats
		show = func() { pp.QcLogs(logs, stats) }
	case record.KindRetain:
		s := snap.Retains
		ok, stateErr, screen.LoadedAt = s.Loaded(), s.Err(), s.LoadedAt()
		retains := s.Derived(now)
		stats := view.RetainsStats(s.Raw())
		screen.Items, screen.Stats, screen.Activity = retains, stats, activity
		show = func() {
			pp.Retains(retains, stats)
			pp.Activity(activity)
		}
	case record.KindTesting:
		cols, unknown := record.ColumnsByKey(v.Columns)
		if len(unknown) > 0 {
			return fmt.Errorf("unknown result columns %v", unknown)
		}
		s := snap.Results
		ok, stateErr, screen.LoadedAt = s.Loaded(), s.Err(), s.LoadedAt()
		rows := s.Derived(now)
		screen.Items = rows
		show = func() { pp.Results(rows, cols) }
	case record.KindBatch:
		s := snap.Batches
		ok, stateErr, screen.LoadedAt = s.Loaded(), s.Err(), s.LoadedAt()
		batches := s.Derived(now)
		stats := view.BatchesStats(batches)
		screen.Items, screen.Stats = batches, stats
		show = func() { pp.Batches(batches, stats) }
	case record.KindReminder:
		s := snap.Reminders
		ok, stateErr, screen.LoadedAt = s.Loaded(), s.Err(), s.LoadedAt()
		reminders := s.Derived(now)
		stats := view.RemindersStats(reminders)
		screen.Items, screen.Stats = reminders, stats
		show = func() {
			if v.Calendar {
				pp.ReminderCalendar(now, reminders)
				pp.ReminderCalendar(printers.NextMonth(now), reminders)
				return
			}
			pp.Reminders(reminders, stats)
		}
	default:
		return fmt.Errorf("no %s screen", v.Kind)
	}

	if !ok {
		if stateErr != nil {
			return stateErr
		}
		return fmt.Errorf("%s not loaded yet", v.Kind)
	}
	if stateErr != nil {
		screen.Stale = stateErr.Error()
	}
	if v.JSON {
		return options.PrintJSON(w, screen)
	}
	pp.Stale(stateErr)
	show()
	return nil
}
