package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/printers"
	"tableflip.dev/labdash/pkg/view"
)

func addProduction(topLevel *cobra.Command) {
	year := 0
	cmd := &cobra.Command{
		Use:   "production",
		Short: "Pounds produced per month for a year.",
		Example: `
labdash production
labdash production --year 2023
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			batches, err := s.Service.Batches(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			now := s.Service.Now()
			years := view.AvailableYears(batches, now.Location())
			if year == 0 {
				year = view.DefaultYear(years, now)
			}
			months := view.ProductionByMonth(batches, year, now.Location())

			if output.JSON {
				released, rework := view.ProductionTotals(months)
				return options.PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"year":           year,
					"availableYears": years,
					"months":         months,
					"releasedPounds": released,
					"reworkPounds":   rework,
				})
			}
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout(), Location: now.Location()}
			pp.Production(year, months)
			if len(years) > 1 {
				pp.Stats("years", fmt.Sprint(years))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year to report, defaults to the latest year with batches.")

	topLevel.AddCommand(cmd)
}
