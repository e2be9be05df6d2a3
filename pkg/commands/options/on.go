package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/offset"
	"tableflip.dev/labdash/pkg/timeutil"
)

// ScheduleOptions picks a reminder due date, either as a span from today or
// as a calendar date.
type ScheduleOptions struct {
	InString string
	OnString string
}

func AddScheduleArgs(cmd *cobra.Command, o *ScheduleOptions) {
	cmd.Flags().StringVar(&o.InString, "in", "",
		`Due this many days from today, example: --in=3, --in=2w or --in=1w2d.`)
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Due on a date, example: --on="2024-6-28" or --on="6/28/2024".`)
}

// Request converts the flags to a resolver request. With neither flag set the
// request is empty.
func (o *ScheduleOptions) Request() (offset.Request, error) {
	in := strings.TrimSpace(o.InString)
	on := strings.TrimSpace(o.OnString)
	switch {
	case in != "" && on != "":
		return offset.Request{}, fmt.Errorf("use either --in or --on, not both")
	case in != "":
		days, _, err := timeutil.ParseDays(in)
		if err != nil {
			return offset.Request{}, err
		}
		return offset.Request{Mode: offset.ModeOffset, DayOffset: &days}, nil
	case on != "":
		return offset.Request{Mode: offset.ModeTargetDate, TargetDate: on}, nil
	}
	return offset.Request{}, nil
}
