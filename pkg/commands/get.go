package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/runner/get"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

func addGet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"show"},
		Short:   "Show one of the dashboard screens.",
		Example: `
labdash get qc --released-by "Jane Doe"
labdash get reminders --status overdue
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(getQc(), getRetains(), getResults(), getBatches(), getReminders())
	topLevel.AddCommand(cmd)
}

// runGet opens the store and renders one screen.
func runGet(cmd *cobra.Command, g *get.Get) error {
	s, err := openSession()
	if err != nil {
		return output.HandleError(err)
	}
	defer s.Close()

	g.Service = s.Service
	g.JSON = output.JSON
	g.Out = cmd.OutOrStdout()
	return output.HandleError(g.Do(cmd.Context()))
}

func getQc() *cobra.Command {
	so := &options.SearchOptions{}
	releasedBy := view.All
	cmd := &cobra.Command{
		Use:   "qc",
		Short: "QC releases, newest first.",
		Example: `
labdash get qc
labdash get qc -s NA1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd, &get.Get{
				Kind:   record.KindQcLog,
				Search: so.Search,
				QC:     view.QcFilter{ReleasedBy: releasedBy},
			})
		},
	}
	options.AddSearchArgs(cmd, so)
	cmd.Flags().StringVar(&releasedBy, "released-by", view.All, "Only show releases by this person.")
	return cmd
}

func getRetains() *cobra.Command {
	so := &options.SearchOptions{}
	box := 0
	cmd := &cobra.Command{
		Use:   "retains",
		Short: "Retained samples and the boxes they are shelved in.",
		Example: `
labdash get retains --box 3
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := view.RetainFilter{}
			if cmd.Flags().Changed("box") {
				f.Box = &box
			}
			return runGet(cmd, &get.Get{
				Kind:    record.KindRetain,
				Search:  so.Search,
				Retains: f,
			})
		},
	}
	options.AddSearchArgs(cmd, so)
	cmd.Flags().IntVar(&box, "box", 0, "Only show retains in this box.")
	return cmd
}

func getResults() *cobra.Command {
	so := &options.SearchOptions{}
	var columns []string
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Testing results per batch.",
		Example: `
labdash get results --columns weld,pen0x
labdash get results --columns all
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd, &get.Get{
				Kind:    record.KindTesting,
				Search:  so.Search,
				Columns: columns,
			})
		},
	}
	options.AddSearchArgs(cmd, so)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, `Optional result columns to show, or "all".`)
	_ = cmd.RegisterFlagCompletionFunc("columns", completeColumns)
	return cmd
}

func getBatches() *cobra.Command {
	so := &options.SearchOptions{}
	f := view.BatchFilter{}
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Monthly production batches, latest start first.",
		Example: `
labdash get batches --type rework
labdash get batches --released yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGet(cmd, &get.Get{
				Kind:    record.KindBatch,
				Search:  so.Search,
				Batches: f,
			})
		},
	}
	options.AddSearchArgs(cmd, so)
	cmd.Flags().StringVar(&f.Type, "type", view.All, "Only show batches of this type.")
	cmd.Flags().StringVar(&f.Released, "released", view.All, "Only show batches with this released value.")
	return cmd
}

func getReminders() *cobra.Command {
	so := &options.SearchOptions{}
	statusName := view.All
	calendar := false
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspection reminders by urgency.",
		Example: `
labdash get reminders --status overdue
labdash get reminders --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := view.ReminderFilter{Status: view.All}
			if statusName != "" && statusName != view.All {
				st, err := status.Parse(statusName)
				if err != nil {
					return output.HandleError(err)
				}
				f.Status = st
			}
			if calendar && output.JSON {
				return output.HandleError(errors.New("--calendar can not be combined with --json"))
			}
			return runGet(cmd, &get.Get{
				Kind:      record.KindReminder,
				Search:    so.Search,
				Reminders: f,
				Calendar:  calendar,
			})
		},
	}
	options.AddSearchArgs(cmd, so)
	cmd.Flags().StringVar(&statusName, "status", view.All, "One of all, overdue, due_today or upcoming.")
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Show this month and next as calendars.")
	_ = cmd.RegisterFlagCompletionFunc("status", completeStatuses)
	return cmd
}
