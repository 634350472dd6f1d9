package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/prefs"
)

// Global flags
var (
	configFlag   string
	endpointFlag string
	demoFlag     bool
	debugFlag    bool
	fromFlag     string
	toFlag       string
	prefsFlag    string
)

// rootCmd runs the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "statgrid",
	Short: "Live terminal dashboard for varnishmon metrics",
	Long: `statgrid shows every metric of a varnishmon storage API as a live
time-series plot, grouped by cluster, in your terminal.

Plots are fetched when they scroll into view and refreshed on a timer while
visible. Zooming one plot zooms all of them.

Examples:
  statgrid --endpoint http://localhost:6100
  statgrid --demo
  statgrid --from now-6h --to now`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (default: .statgrid.yaml, then ~/.config/statgrid/config.yaml)")
	pf.StringVar(&endpointFlag, "endpoint", "", "storage API base URL (overrides config)")
	pf.BoolVar(&demoFlag, "demo", false, "serve synthetic metrics instead of calling the storage API")
	pf.BoolVar(&debugFlag, "debug", false, "write debug entries to the log file")
	pf.StringVar(&fromFlag, "from", "", "start of the time range, e.g. now-6h or 2024-03-01 12:00")
	pf.StringVar(&toFlag, "to", "", "end of the time range, e.g. now")
	pf.StringVar(&prefsFlag, "prefs", "", "preferences file (default: ~/.config/statgrid/prefs.yaml)")
	_ = pf.MarkHidden("prefs")

	rangeChoices := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return prefValueChoices("from"), cobra.ShellCompDirectiveNoFileComp
	}
	_ = rootCmd.RegisterFlagCompletionFunc("from", rangeChoices)
	_ = rootCmd.RegisterFlagCompletionFunc("to", rangeChoices)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// Config returns the --config flag value.
func Config() string {
	return configFlag
}

// loadConfig finds, loads and validates the config, then applies the global
// flag overrides.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, "", err
	}
	applyConfigFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyConfigFlags copies --endpoint, --demo and --debug onto cfg.
func applyConfigFlags(cfg *config.Config) {
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
	if demoFlag {
		cfg.Demo = true
	}
	if debugFlag {
		cfg.Log.Debug = true
	}
}

// prefsStore opens the preferences file.
func prefsStore(cfg *config.Config) *prefs.Store {
	path := prefsFlag
	if path == "" {
		path = prefs.DefaultPath()
	}
	return prefs.NewStore(path, cfg.ScrapePeriod, nil)
}
