package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/labdash/pkg/record"
	"tableflip.dev/labdash/pkg/store"
)

type Info struct {
	Config *store.FileConfig
	Store  *store.Store
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("LABDASH_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "LABDASH_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "LABDASH_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.driver:", n.Config.Driver())
	switch store.Driver(n.Config.Driver()) {
	case store.DriverSQLite:
		_, _ = fmt.Fprintln(out, "Config.sqlite.path:", n.Config.SQLitePath())
	case store.DriverPostgres:
		_, _ = fmt.Fprintln(out, "Config.postgres.dsn: (set)")
	case store.DriverMemory:
	default:
		_, _ = fmt.Fprintln(out, "Config.path:", n.Config.BasePath())
	}
	_, _ = fmt.Fprintln(out, "Config.refresh.interval:", n.Config.Refresh)
	_, _ = fmt.Fprintln(out, "Config.search.debounce:", n.Config.Debounce)

	if n.Store == nil {
		return fmt.Errorf("failed to open the record store")
	}

	b, err := n.Store.Export(ctx)
	if err != nil {
		return err
	}
	counts := b.Counts()

	_, _ = fmt.Fprintln(out, "Records:")
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range record.Kinds() {
		tbl.AddRow("  "+k.String(), counts[k])
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
