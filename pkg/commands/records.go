package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load records from a JSON bundle, replacing records with the same key.",
		Example: `
labdash import records.json
cat records.json | labdash import -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return output.HandleError(err)
				}
				defer f.Close()
				in = f
			}
			b, err := store.ReadBundle(in)
			if err != nil {
				return output.HandleError(err)
			}

			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			if err := s.Service.Import(cmd.Context(), b); err != nil {
				return output.HandleError(err)
			}
			return output.HandleError(printCounts(cmd.OutOrStdout(), b.Counts()))
		},
	}

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as a JSON bundle.",
		Example: `
labdash export > records.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return output.HandleError(err)
			}
			defer s.Close()

			b, err := s.Service.Store.Export(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			return options.PrintJSON(cmd.OutOrStdout(), b)
		},
	}

	topLevel.AddCommand(cmd)
}

func printCounts(w io.Writer, counts map[record.Kind]int) error {
	if output.JSON {
		return options.PrintJSON(w, counts)
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range record.Kinds() {
		tbl.AddRow(k, counts[k])
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
