package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/prefs"
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/ui"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

var catalogDebug bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the metrics available in the time range",
	Long: `List every metric the storage API has samples for in the stored time
range, grouped by cluster. --from and --to override the range for this run.

Debug metrics are hidden unless --debug-metrics is set or the stored
verbosity is debug.

Examples:
  statgrid catalog
  statgrid catalog --from now-1d --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := catalogCommand(cmd.Context(), cmd.OutOrStdout())
		if err != nil && machineMode {
			_ = WriteJSONFromError(cmd.OutOrStdout(), err)
		}
		return err
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&machineMode, "json", false, "output JSON")
	catalogCmd.Flags().BoolVar(&catalogDebug, "debug-metrics", false, "include debug metrics")
	rootCmd.AddCommand(catalogCmd)
}

// catalogMetric is one metric in the JSON output.
type catalogMetric struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Unit        string `json:"unit,omitempty"`
	Debug       bool   `json:"debug,omitempty"`
}

// catalogCluster is one cluster in the JSON output.
type catalogCluster struct {
	Name    string          `json:"name"`
	Metrics []catalogMetric `json:"metrics"`
}

// catalogOutput is the JSON output of the catalog command.
type catalogOutput struct {
	From     time.Time        `json:"from"`
	To       time.Time        `json:"to"`
	Step     string           `json:"step"`
	Clusters []catalogCluster `json:"clusters"`
}

func catalogCommand(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	gw, _, err := newGateway(cfg)
	if err != nil {
		return err
	}
	p, err := prefsStore(cfg).Load()
	if err != nil {
		return err
	}
	if err := applyRangeFlags(p, fromFlag, toFlag); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	cat, err := fetchCatalog(ctx, gw, p, time.Now)
	if err != nil {
		return err
	}

	includeDebug := catalogDebug || p.VerbosityValue() == widget.VerbosityDebug
	return renderCatalog(out, cat, includeDebug, machineMode)
}

// fetchCatalog lists the metrics for the range and step stored in p.
func fetchCatalog(ctx context.Context, gw gateway.Gateway, p *prefs.Prefs, now func() time.Time) (*gateway.Catalog, error) {
	picker, err := timerange.NewPicker(p.From, p.To, now)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid time range %s .. %s", p.From, p.To),
			"Fix it with 'statgrid prefs set from <expr>'")
	}
	r := picker.Dates()
	return gw.FetchCatalog(ctx, r.From, r.To, p.StepDuration())
}

// renderCatalog prints the catalog as a table, or as JSON in machine mode.
func renderCatalog(out io.Writer, cat *gateway.Catalog, includeDebug, asJSON bool) error {
	data := catalogOutput{
		From:     cat.From,
		To:       cat.To,
		Step:     cat.Step.String(),
		Clusters: []catalogCluster{},
	}
	for _, cl := range cat.Clusters {
		c := catalogCluster{Name: cl.Name, Metrics: []catalogMetric{}}
		for _, m := range cl.Metrics {
			if m.Debug && !includeDebug {
				continue
			}
			c.Metrics = append(c.Metrics, catalogMetric{
				ID:          m.ID,
				Name:        m.Name,
				Description: m.Description,
				Kind:        kindName(m.Kind),
				Unit:        m.Unit(),
				Debug:       m.Debug,
			})
		}
		if len(c.Metrics) > 0 {
			data.Clusters = append(data.Clusters, c)
		}
	}

	if asJSON {
		return WriteJSONSuccess(out, data)
	}

	ui.ConfigureOutput(out)
	if len(data.Clusters) == 0 {
		_, err := fmt.Fprintln(out, "No metrics in the selected time range")
		return err
	}

	columns := []ui.TableColumn{{Title: "ID"}, {Title: "Name"}, {Title: "Kind"}, {Title: "Unit"}}
	for _, cl := range data.Clusters {
		rows := make([][]string, 0, len(cl.Metrics))
		for _, m := range cl.Metrics {
			name := m.Name
			if m.Debug {
				name += " (debug)"
			}
			rows = append(rows, []string{strconv.Itoa(m.ID), name, m.Kind, m.Unit})
		}
		title := fmt.Sprintf("%s %s (%d)", ui.SymbolUnfolded, cl.Name, len(cl.Metrics))
		if _, err := fmt.Fprintf(out, "%s\n%s\n\n", ui.DefaultTableStyle().Header.Render(title), ui.RenderSimpleTable(columns, rows)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%s, step %s\n", timerange.Range{From: cat.From, To: cat.To}, cat.Step)
	return err
}

func kindName(k metric.Kind) string {
	switch k {
	case metric.Counter:
		return "counter"
	case metric.Bitmap:
		return "bitmap"
	default:
		return "gauge"
	}
}
