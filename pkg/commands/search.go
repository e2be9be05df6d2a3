package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/printers"
)

func addSearch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find batches across QC logs, retains and testing results.",
		Example: `
labdash search NA1
labdash search 507450 --json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			res, err := s.Service.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), res)
			}
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Suggestions(res)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
