package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard.",
		Example: `
labdash ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ui needs a terminal, try `labdash watch` or `labdash get`")
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			return tui.Run(s.Service, tui.Options{
				Refresh:  s.Config.Refresh,
				Debounce: s.Config.Debounce,
			})
		},
	}

	topLevel.AddCommand(cmd)
}
