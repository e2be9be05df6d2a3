// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// SearchOptions narrows a screen by free text.
type SearchOptions struct {
	Search string
}

func AddSearchArgs(cmd *cobra.Command, o *SearchOptions) {
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only show records whose batch or product code contains this text.")
}
