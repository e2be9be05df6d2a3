package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configured store and how many records it holds.",
		Example: `
labdash info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			i := info.Info{
				Config: s.Config,
				Store:  s.Service.Store,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(i.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
