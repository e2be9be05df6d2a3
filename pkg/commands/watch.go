package commands

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/printers"
	"tableflip.dev/labdash/pkg/search"
	"tableflip.dev/labdash/pkg/view"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard fresh and search as you type.",
		Long: `Reloads reminders on the refresh interval and any screen whose storage
changes. Each line typed on stdin is treated as a keystroke of the search
box: only the last query of a burst is searched.`,
		Example: `
labdash watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}

			deb := search.NewDebouncer(s.Service.Search, s.Config.Debounce, func(d search.Delivery) {
				mu.Lock()
				defer mu.Unlock()
				if d.Err != nil {
					_, _ = color.New(color.FgRed).Fprintf(pp.Out, "search failed: %v\n", d.Err)
					return
				}
				pp.Suggestions(d.Result)
			}, s.Service.Log, s.Service.Metrics)
			defer deb.Close()

			go readQueries(ctx, deb)

			d := app.NewDashboard(s.Service)
			return d.Run(ctx, s.Config.Refresh, func(snap *app.Snapshot) {
				mu.Lock()
				defer mu.Unlock()
				now := s.Service.Now()
				pp.Catalog = snap.Catalog
				pp.Location = now.Location()
				stats := headline(snap, now)
				_, _ = color.New(color.Faint).Fprintf(pp.Out, "%s  ", now.Format("15:04:05"))
				pp.Stats(stats...)
				if err := snap.Reminders.Err(); err != nil {
					pp.Stale(err)
				}
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func readQueries(ctx context.Context, deb *search.Debouncer) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		deb.Input(scanner.Text())
	}
}

// headline is the line printed after every refresh.
func headline(snap *app.Snapshot, now time.Time) []string {
	rs := view.RemindersStats(view.Classify(snap.Reminders.Raw(), now))
	qc := view.QcLogStats(snap.QC.Raw(), now)
	return []string{
		"overdue", strconv.Itoa(rs.Overdue),
		"due today", strconv.Itoa(rs.DueToday),
		"upcoming", strconv.Itoa(rs.Upcoming),
		"released today", strconv.Itoa(qc.ReleasedToday),
	}
}
