package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/labdash/pkg/app"
	"tableflip.dev/labdash/pkg/commands/options"
	"tableflip.dev/labdash/pkg/logging"
	"tableflip.dev/labdash/pkg/metrics"
	"tableflip.dev/labdash/pkg/store"
)

var (
	output = &options.OutputOptions{}

	// Set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "labdash",
		Short: options.Wrap80("Lab records dashboard: QC releases, retains, testing results, batches and inspection reminders."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addSearch(topLevel)
	addWatch(topLevel)
	addRetain(topLevel)
	addReminder(topLevel)
	addProduction(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// session is an opened store with the service built on top of it.
type session struct {
	Config  *store.FileConfig
	Service *app.Service
}

func (s *session) Close() error {
	return s.Service.Store.Close()
}

// openSession loads config, sets up logging and opens the configured store.
func openSession() (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Log)
	st, err := store.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return &session{
		Config: cfg,
		Service: &app.Service{
			Store:    st,
			Log:      log,
			Metrics:  metrics.New(),
			Activity: app.OpenActivityLog(st.Activity),
		},
	}, nil
}
