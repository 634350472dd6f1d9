package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/doctor"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the configuration and the storage API",
	Long: `Check the config file, the storage API, the stored preferences, the log
file and the telemetry address, and suggest fixes for anything wrong.

Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&machineMode, "json", false, "output JSON")
	rootCmd.AddCommand(doctorCmd)
}

// doctorChecks builds the checks and the time they may take. Checks that need
// a valid config are only added when the config loads.
func doctorChecks() ([]doctor.Check, time.Duration) {
	checks := []doctor.Check{
		&doctor.ConfigFileCheck{ConfigPath: configFlag},
		&doctor.ConfigSchemaCheck{ConfigPath: configFlag, Override: applyConfigFlags},
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return checks, config.DefaultConfig().Timeout
	}
	gw, source, err := newGateway(cfg)
	if err != nil {
		return checks, cfg.Timeout
	}
	path := prefsStore(cfg).Path()
	return append(checks,
		&doctor.APICheck{Gateway: gw, Source: source, ScrapePeriod: cfg.ScrapePeriod},
		&doctor.PrefsCheck{Path: path, ScrapePeriod: cfg.ScrapePeriod},
		&doctor.LogFileCheck{Path: cfg.Log.File},
		&doctor.TelemetryCheck{Listen: cfg.Telemetry.Listen},
	), cfg.Timeout
}

func doctorCommand(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	checks, timeout := doctorChecks()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := doctor.RunAllParallel(ctx, checks)
	return renderDoctor(out, results, machineMode)
}

func renderDoctor(out io.Writer, results []doctor.CheckResult, asJSON bool) error {
	var err error
	if asJSON {
		err = WriteJSONSuccess(out, map[string]interface{}{
			"checks":  results,
			"summary": doctor.Summary(results),
		})
	} else {
		ui.ConfigureOutput(out)
		rows := make([]ui.CheckRow, len(results))
		for i, r := range results {
			rows[i] = ui.CheckRow{
				Status:     r.Status.String(),
				Category:   r.Category,
				Message:    r.Message,
				Suggestion: r.Suggestion,
			}
		}
		_, err = fmt.Fprintf(out, "%s%s\n", ui.RenderChecks(rows), doctor.Summary(results))
	}
	if err != nil {
		return err
	}
	if doctor.HasFailures(results) {
		return errors.New(errors.ErrConfig, doctor.Summary(results), "Fix the failed checks above")
	}
	return nil
}
