package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/record"
)

func addRetain(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "retain",
		Aliases: []string{"retains"},
		Short:   "Shelve and pull retained samples.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(retainAdd(), retainRemove(), retainDelete())
	topLevel.AddCommand(cmd)
}

func printRetain(cmd *cobra.Command, verb string, r record.Retain) error {
	if output.JSON {
		return options.PrintJSON(cmd.OutOrStdout(), r)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s ", verb, r.Code, r.Batch)
	_, _ = color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "box %d\n", r.Box)
	return nil
}

func retainAdd() *cobra.Command {
	in := app.RetainInput{}
	cmd := &cobra.Command{
		Use:   "add <code> <batch>",
		Short: "Shelve a retain in a box.",
		Example: `
labdash retain add 507450 NA100 --box 3
labdash retain add "507450 NA100" --box 3 --date 2024-06-01
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			in.CodeBatch = strings.Join(args, " ")
			r, err := s.Service.AddRetain(cmd.Context(), in)
			if err != nil {
				return output.HandleError(err)
			}
			return output.HandleError(printRetain(cmd, "Shelved", r))
		},
	}
	cmd.Flags().StringVar(&in.Box, "box", "", "Box number the retain is shelved in.")
	cmd.Flags().StringVar(&in.Date, "date", "", "Release date, defaults to today.")
	_ = cmd.MarkFlagRequired("box")
	return cmd
}

func retainRemove() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <code> <batch>",
		Short: "Pull the retain shelved for a batch.",
		Example: `
labdash retain remove 507450 NA100
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			r, err := s.Service.RemoveRetain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return output.HandleError(err)
			}
			return output.HandleError(printRetain(cmd, "Pulled", r))
		},
	}
	return cmd
}

func retainDelete() *cobra.Command {
	ido := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a retain by id.",
		Example: `
labdash retain delete 12
labdash retain delete --id=12
`,
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

			if err := s.Service.DeleteRetain(cmd.Context(), id); err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), map[string]int{"deleted": id})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted retain %d\n", id)
			return nil
		},
	}
	options.AddIDArgs(cmd, ido)
	return cmd
}
