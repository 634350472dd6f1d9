package cli

import (
	"context"
	goerrors "errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/statgrid/internal/dashboard"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/render"
	"github.com/rileyhilliard/statgrid/internal/schedule"
	"github.com/rileyhilliard/statgrid/internal/telemetry"
)

// dashboardCmd starts the TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Live dashboard of every metric (default command)",
	Long: `Start the interactive dashboard. This is what running statgrid without a
subcommand does.

Keyboard shortcuts:
  /           Filter metrics by name
  t           Change the time range
  i / a / v   Cycle refresh interval, aggregator, verbosity
  c           Cycle the number of columns
  [ / ]       Finer / coarser step
  + - h l 0   Zoom, pan and reset the selected plot (shared by all plots)
  enter       Fold the selected cluster
  r / R       Refresh all plots / reload the metric list
  ?           Show all shortcuts
  q           Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardCommand wires the dashboard to its collaborators and runs it
// until the user quits.
func dashboardCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Run statgrid from a terminal, or use 'statgrid catalog' for plain output")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(logger.Options{Path: cfg.Log.File, Debug: cfg.Log.Debug})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open the log file "+cfg.Log.File,
			"Set log.file in your config to a writable path")
	}
	defer func() { _ = closeLog() }()
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics := telemetry.New()
	if cfg.Telemetry.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Telemetry.Listen, log); err != nil {
				log.Error("telemetry: %s", errors.Summary(err))
			}
		}()
	}

	gw, source, err := newGateway(cfg)
	if err != nil {
		return err
	}

	store := prefsStore(cfg)
	p, err := store.Load()
	if err != nil {
		return err
	}
	if err := applyRangeFlags(p, fromFlag, toFlag); err != nil {
		return err
	}

	loop := schedule.NewLoop(ctx)
	defer loop.Close()

	model, err := dashboard.NewModel(dashboard.Options{
		Scheduler:    loop,
		Gateway:      gateway.Instrument(gw, metrics, log),
		Engine:       render.NewTerminal(),
		Prefs:        p,
		Store:        store,
		ScrapePeriod: cfg.ScrapePeriod,
		CardHeight:   cfg.Dashboard.CardHeight,
		Debounce:     cfg.Dashboard.Debounce,
		Source:       source,
		Logger:       log,
		Telemetry:    metrics,
	})
	if err != nil {
		return err
	}

	log.Info("starting dashboard on %s", source)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	loop.Attach(program.Send)

	_, err = program.Run()
	model.Close()
	if err != nil && !goerrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
