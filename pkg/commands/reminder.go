package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/record"
)

func addReminder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"reminders"},
		Short:   "Schedule and clear inspection reminders.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(reminderAdd(), reminderDone("complete", "Mark a reminder as done.", (*app.Service).CompleteReminder),
		reminderDone("delete", "Delete a reminder.", (*app.Service).DeleteReminder))
	topLevel.AddCommand(cmd)
}

func reminderAdd() *cobra.Command {
	in := app.ReminderInput{}
	so := &options.ScheduleOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a reminder for a batch.",
		Example: `
labdash reminder add --batch NA100 --type weekly
labdash reminder add --batch NA100 --type monthly --in 2w
labdash reminder add --batch NA100 --type custom --on 6/28/2024
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := so.Request()
			if err != nil {
				return output.HandleError(err)
			}
			in.Schedule = req

			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r, err := s.Service.AddReminder(cmd.Context(), in)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), r)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s for %s, due %s\n", r.ReminderID, r.Batch, r.Due)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Batch, "batch", "", "Batch to inspect.")
	cmd.Flags().StringVar(&in.IntervalType, "type", "", "Interval type, example: weekly or monthly.")
	options.AddScheduleArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("batch", completeBatches)
	return cmd
}

type reminderOp func(*app.Service, context.Context, int) (record.Reminder, error)

// reminderDone builds complete and delete, which differ only in the
// mutation they record.
func reminderDone(use, short string, op reminderOp) *cobra.Command {
	ido := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Example: fmt.Sprintf(`
labdash reminder %[1]s RM-0012
labdash reminder %[1]s --id=12
`, use),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ido.GetID(args)
			if err != nil {
				return output.HandleError(err)
			}
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r, err := op(s.Service, cmd.Context(), id)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), r)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s\n", doneVerb[use], r.ReminderID, r.Batch)
			return nil
		},
	}
	options.AddIDArgs(cmd, ido)
	return cmd
}

var doneVerb = map[string]string{
	"complete": "Completed",
	"delete":   "Deleted",
}
