package cli

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/prefs"
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/ui"
	"github.com/rileyhilliard/statgrid/internal/util"
)

var (
	prefsYAML  bool
	prefsForce bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the stored dashboard controls",
	Long: `The dashboard remembers its controls (time range, refresh interval, filter,
verbosity, columns, aggregator and step) between sessions. These commands
read and change them without starting the dashboard.

Keys: ` + strings.Join(prefs.Keys, ", "),
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefsStore()
		if err != nil {
			return err
		}
		return prefsShow(cmd.OutOrStdout(), store, prefsYAML)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Example: `  statgrid prefs set from now-6h
  statgrid prefs set refresh 30s
  statgrid prefs set columns 4`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return prefs.Keys, cobra.ShellCompDirectiveNoFileComp
		case 1:
			return prefValueChoices(args[0]), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefsStore()
		if err != nil {
			return err
		}
		return prefsSet(cmd.OutOrStdout(), store, args[0], args[1])
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every stored preference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefsStore()
		if err != nil {
			return err
		}
		if !prefsForce {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New(errors.ErrConfig,
					"Refusing to reset preferences without confirmation",
					"Use --force to reset non-interactively")
			}
			var confirm bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Reset all dashboard preferences?").
						Description(store.Path()).
						Value(&confirm),
				),
			)
			if err := form.Run(); err != nil || !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
		return prefsReset(cmd.OutOrStdout(), store)
	},
}

var prefsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the preferences in a form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				"prefs edit needs an interactive terminal",
				"Use 'statgrid prefs set <key> <value>' instead")
		}
		store, err := openPrefsStore()
		if err != nil {
			return err
		}
		p, err := store.Load()
		if err != nil {
			return err
		}

		values := newPrefsFormValues(p)
		if err := newPrefsForm(values).Run(); err != nil {
			if goerrors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Use 'statgrid prefs set <key> <value>' instead")
		}
		if err := applyPrefsForm(p, values, store.ScrapePeriod()); err != nil {
			return err
		}
		if err := store.Save(p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", ui.SymbolSuccess, store.Path())
		return nil
	},
}

func init() {
	prefsShowCmd.Flags().BoolVar(&prefsYAML, "yaml", false, "print the raw YAML")
	prefsResetCmd.Flags().BoolVarP(&prefsForce, "force", "f", false, "skip the confirmation")
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsResetCmd, prefsEditCmd)
	rootCmd.AddCommand(prefsCmd)
}

func openPrefsStore() (*prefs.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return prefsStore(cfg), nil
}

// prefsShow prints every key in display order, then the folded clusters and
// the filter history.
func prefsShow(out io.Writer, store *prefs.Store, asYAML bool) error {
	p, err := store.Load()
	if err != nil {
		return err
	}
	if asYAML {
		data, err := yaml.Marshal(p)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode preferences", "")
		}
		_, err = out.Write(data)
		return err
	}

	ui.ConfigureOutput(out)
	items := make([]ui.KeyValue, 0, len(prefs.Keys)+2)
	for _, key := range prefs.Keys {
		v, _ := p.Get(key)
		if key == "refresh" && p.Refresh == prefs.RefreshAuto {
			v = fmt.Sprintf("auto (%s)", p.RefreshInterval(store.ScrapePeriod()))
		}
		if v == "" {
			v = "-"
		}
		items = append(items, ui.KeyValue{Key: key, Value: v})
	}
	items = append(items,
		ui.KeyValue{Key: "collapsed", Value: util.JoinOrNone(p.Collapsed)},
		ui.KeyValue{Key: "history", Value: util.JoinOrNone(p.FilterHistory)},
	)
	_, err = fmt.Fprint(out, ui.RenderKeyValues(store.Path(), items))
	return err
}

// prefsSet changes one key and saves. Nothing is written when the value is
// rejected.
func prefsSet(out io.Writer, store *prefs.Store, key, value string) error {
	p, err := store.Load()
	if err != nil {
		return err
	}
	if err := p.Set(key, value, store.ScrapePeriod()); err != nil {
		return err
	}
	if err := store.Save(p); err != nil {
		return err
	}
	v, _ := p.Get(key)
	_, err = fmt.Fprintf(out, "%s %s = %s\n", ui.SymbolSuccess, key, v)
	return err
}

func prefsReset(out io.Writer, store *prefs.Store) error {
	if err := store.Reset(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%s Preferences reset\n", ui.SymbolSuccess)
	return err
}

// prefValueChoices lists the accepted values of enumerated keys.
func prefValueChoices(key string) []string {
	switch key {
	case "refresh":
		out := make([]string, len(prefs.RefreshValues))
		for i, v := range prefs.RefreshValues {
			out[i] = prefs.FormatRefresh(v)
		}
		return out
	case "columns":
		out := make([]string, len(prefs.ColumnValues))
		for i, v := range prefs.ColumnValues {
			out[i] = strconv.Itoa(v)
		}
		return out
	case "aggregator":
		out := make([]string, len(metric.Aggregators))
		for i, a := range metric.Aggregators {
			out[i] = string(a)
		}
		return out
	case "verbosity":
		out := make([]string, len(prefs.VerbosityValues))
		for i, v := range prefs.VerbosityValues {
			out[i] = string(v)
		}
		return out
	case "from", "to":
		return []string{"now", "now-15m", "now-1h", "now-6h", "now-1d", "now-7d"}
	}
	return nil
}

// prefsFormValues holds the form fields as the strings Set accepts.
type prefsFormValues struct {
	From       string
	To         string
	Refresh    string
	Filter     string
	Verbosity  string
	Columns    string
	Aggregator string
	Step       string
}

func newPrefsFormValues(p *prefs.Prefs) *prefsFormValues {
	get := func(key string) string {
		v, _ := p.Get(key)
		return v
	}
	return &prefsFormValues{
		From:       get("from"),
		To:         get("to"),
		Refresh:    get("refresh"),
		Filter:     get("filter"),
		Verbosity:  get("verbosity"),
		Columns:    get("columns"),
		Aggregator: get("aggregator"),
		Step:       get("step"),
	}
}

func selectOptions(key string) []huh.Option[string] {
	choices := prefValueChoices(key)
	opts := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		opts[i] = huh.NewOption(c, c)
	}
	return opts
}

func validateExpr(s string) error {
	_, err := timerange.ParseExpr(s)
	return err
}

func newPrefsForm(v *prefsFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Description("now, now-1h, now-1d or 2024-03-01 12:00").
				Validate(validateExpr).
				Value(&v.From),
			huh.NewInput().
				Title("To").
				Validate(validateExpr).
				Value(&v.To),
			huh.NewInput().
				Title("Filter").
				Description("Regular expression on metric names").
				Value(&v.Filter),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Refresh interval").
				Options(selectOptions("refresh")...).
				Value(&v.Refresh),
			huh.NewSelect[string]().
				Title("Aggregator").
				Options(selectOptions("aggregator")...).
				Value(&v.Aggregator),
			huh.NewInput().
				Title("Step").
				Description("Seconds or a duration, like 60 or 1m").
				Value(&v.Step),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Columns").
				Options(selectOptions("columns")...).
				Value(&v.Columns),
			huh.NewSelect[string]().
				Title("Verbosity").
				Options(selectOptions("verbosity")...).
				Value(&v.Verbosity),
		),
	)
}

// applyPrefsForm validates every field before changing p. The range is
// checked as a pair so that moving both edges at once is accepted.
func applyPrefsForm(p *prefs.Prefs, v *prefsFormValues, scrape time.Duration) error {
	next := *p
	if _, err := timerange.NewPicker(v.From, v.To, nil); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid time range %s .. %s", v.From, v.To),
			"Use now, now-1h or a date like 2024-03-01 12:00, with From before To")
	}
	next.From, next.To = strings.TrimSpace(v.From), strings.TrimSpace(v.To)

	fields := []struct{ key, value string }{
		{"refresh", v.Refresh},
		{"verbosity", v.Verbosity},
		{"columns", v.Columns},
		{"aggregator", v.Aggregator},
		{"step", v.Step},
	}
	for _, f := range fields {
		if err := next.Set(f.key, f.value, scrape); err != nil {
			return err
		}
	}
	if strings.TrimSpace(v.Filter) != p.Filter {
		if err := next.Set("filter", v.Filter, scrape); err != nil {
			return err
		}
	}
	*p = next
	return nil
}
