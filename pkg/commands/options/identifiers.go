package options

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ID string
}

func AddIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVar(&o.ID, "id", "",
		"Specify the id of a record, example: --id=12 or --id=RM-0012.")
}

// ParseID accepts a plain number or a display id such as "RM-0012".
func ParseID(v string) (int, error) {
	s := strings.TrimSpace(v)
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return id, nil
}

// GetID resolves the id from --id or the first argument.
func (o *IDOptions) GetID(args []string) (int, error) {
	v := o.ID
	if v == "" && len(args) > 0 {
		v = args[0]
	}
	if v == "" {
		return 0, fmt.Errorf("an id is required")
	}
	return ParseID(v)
}
