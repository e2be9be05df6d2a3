package commands

import (
	"context"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/status"
	"tableflip.dev/labdash/pkg/view"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(labdash completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(labdash completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func completeStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := []string{view.All}
	for _, st := range status.All() {
		out = append(out, st.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeColumns(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := []string{view.All}
	for _, c := range record.OptionalColumns {
		out = append(out, c.Key)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeBatches suggests batch numbers from the configured store.
func completeBatches(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s, err := openSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer s.Close()
	codes, err := s.Service.BatchCodes(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(codes))
	for batch := range codes {
		out = append(out, batch)
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp
}
