// Package prefs persists the dashboard controls between sessions.
package prefs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/util"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

const (
	// RefreshAuto follows the scrape period of the store.
	RefreshAuto = -1
	// RefreshDisabled turns periodic refresh off.
	RefreshDisabled = 0

	// DefaultColumns is the grid width used when nothing is stored.
	DefaultColumns = 3

	// MaxFilterHistory caps the number of remembered filters.
	MaxFilterHistory = 20
)

var (
	// RefreshValues are the accepted refresh intervals, in seconds.
	RefreshValues = []int{RefreshAuto, RefreshDisabled, 1, 2, 3, 4, 5, 10, 15, 30, 60}

	// ColumnValues divide the 12 unit grid evenly.
	ColumnValues = []int{1, 2, 3, 4, 6, 12}

	// VerbosityValues are the accepted verbosity levels.
	VerbosityValues = []widget.Verbosity{widget.VerbosityNormal, widget.VerbosityDebug}
)

// Keys lists the keys accepted by Set, in display order.
var Keys = []string{"from", "to", "refresh", "filter", "verbosity", "columns", "aggregator", "step"}

// Prefs is the persisted state of the dashboard controls.
type Prefs struct {
	From          string   `yaml:"from"`
	To            string   `yaml:"to"`
	Refresh       int      `yaml:"refresh"`
	Filter        string   `yaml:"filter"`
	FilterHistory []string `yaml:"filter_history,omitempty"`
	Verbosity     string   `yaml:"verbosity"`
	Columns       int      `yaml:"columns"`
	Aggregator    string   `yaml:"aggregator"`
	Step          int      `yaml:"step"`
	Collapsed     []string `yaml:"collapsed,omitempty"`
}

// Default returns the preferences used when nothing is stored. The step
// defaults to the scrape period.
func Default(scrape time.Duration) *Prefs {
	return &Prefs{
		From:       timerange.DefaultFrom,
		To:         timerange.DefaultTo,
		Refresh:    RefreshAuto,
		Verbosity:  string(widget.VerbosityNormal),
		Columns:    DefaultColumns,
		Aggregator: string(metric.Avg),
		Step:       minStep(scrape),
	}
}

func minStep(scrape time.Duration) int {
	if s := int(scrape / time.Second); s > 0 {
		return s
	}
	return 1
}

// RefreshInterval resolves the stored refresh value. Auto becomes the scrape
// period.
func (p *Prefs) RefreshInterval(scrape time.Duration) time.Duration {
	if p.Refresh == RefreshAuto {
		return scrape
	}
	return time.Duration(p.Refresh) * time.Second
}

// StepDuration returns the stored step.
func (p *Prefs) StepDuration() time.Duration {
	return time.Duration(p.Step) * time.Second
}

// AggregatorValue returns the stored aggregator.
func (p *Prefs) AggregatorValue() metric.Aggregator {
	return metric.Aggregator(p.Aggregator)
}

// VerbosityValue returns the stored verbosity.
func (p *Prefs) VerbosityValue() widget.Verbosity {
	return widget.Verbosity(p.Verbosity)
}

// Validate reports the first invalid field.
func (p *Prefs) Validate(scrape time.Duration) error {
	return firstError(p.check(scrape))
}

func firstError(errs map[string]error) error {
	for _, k := range Keys {
		if err := errs[k]; err != nil {
			return err
		}
	}
	return nil
}

// check validates every field and returns the failures keyed by field name.
func (p *Prefs) check(scrape time.Duration) map[string]error {
	errs := make(map[string]error)
	if _, err := timerange.NewPicker(p.From, p.To, time.Now); err != nil {
		errs["from"] = errors.NewConfigError("time range", p.From+" to "+p.To,
			"Use now, now-1h or a date like 2024-03-01 12:00")
	}
	if !slices.Contains(RefreshValues, p.Refresh) {
		errs["refresh"] = errors.NewConfigError("refresh", p.Refresh,
			"Use auto, disabled, 1s, 2s, 3s, 4s, 5s, 10s, 15s, 30s or 1m")
	}
	if !slices.Contains(VerbosityValues, widget.Verbosity(p.Verbosity)) {
		errs["verbosity"] = errors.NewConfigError("verbosity", p.Verbosity, "Use normal or debug")
	}
	if !slices.Contains(ColumnValues, p.Columns) {
		errs["columns"] = errors.NewConfigError("columns", p.Columns, "Use 1, 2, 3, 4, 6 or 12")
	}
	if _, err := metric.ParseAggregator(p.Aggregator); err != nil || p.Aggregator != strings.ToLower(p.Aggregator) {
		errs["aggregator"] = errors.NewConfigError("aggregator", p.Aggregator,
			"Use avg, min, max, first, last or count")
	}
	if p.Step < minStep(scrape) {
		errs["step"] = errors.NewConfigError("step", p.Step,
			fmt.Sprintf("Use at least the scrape period (%ds)", minStep(scrape)))
	}
	return errs
}

// sanitize replaces invalid fields with their defaults and returns what it
// replaced.
func (p *Prefs) sanitize(scrape time.Duration) []error {
	errs := p.check(scrape)
	if len(errs) == 0 {
		return nil
	}

	d := Default(scrape)
	var replaced []error
	for _, k := range Keys {
		err, ok := errs[k]
		if !ok {
			continue
		}
		replaced = append(replaced, err)
		switch k {
		case "from":
			p.From, p.To = d.From, d.To
		case "refresh":
			p.Refresh = d.Refresh
		case "verbosity":
			p.Verbosity = d.Verbosity
		case "columns":
			p.Columns = d.Columns
		case "aggregator":
			p.Aggregator = d.Aggregator
		case "step":
			p.Step = d.Step
		}
	}
	return replaced
}

// Set parses and stores a single value. An invalid value leaves the
// preferences unchanged.
func (p *Prefs) Set(key, value string, scrape time.Duration) error {
	next := *p
	value = strings.TrimSpace(value)

	switch key {
	case "from":
		next.From = value
	case "to":
		next.To = value
	case "refresh":
		secs, err := ParseRefresh(value)
		if err != nil {
			return err
		}
		next.Refresh = secs
	case "filter":
		next.Filter = value
	case "verbosity":
		next.Verbosity = strings.ToLower(value)
	case "columns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewConfigError("columns", value, "Use 1, 2, 3, 4, 6 or 12")
		}
		next.Columns = n
	case "aggregator":
		next.Aggregator = strings.ToLower(value)
	case "step":
		secs, err := parseSeconds(value)
		if err != nil {
			return errors.NewConfigError("step", value, "Use seconds or a duration, like 60 or 1m")
		}
		next.Step = secs
	default:
		hint := "Use one of: " + strings.Join(Keys, ", ")
		if dym := util.DidYouMean(key, Keys); dym != "" {
			hint = dym
		}
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("unknown preference '%s'", key), hint)
	}

	if err := next.Validate(scrape); err != nil {
		return err
	}
	if key == "filter" {
		next.PushFilterHistory(value)
	}
	*p = next
	return nil
}

// Get returns a value in the form Set accepts.
func (p *Prefs) Get(key string) (string, bool) {
	switch key {
	case "from":
		return p.From, true
	case "to":
		return p.To, true
	case "refresh":
		return FormatRefresh(p.Refresh), true
	case "filter":
		return p.Filter, true
	case "verbosity":
		return p.Verbosity, true
	case "columns":
		return strconv.Itoa(p.Columns), true
	case "aggregator":
		return p.Aggregator, true
	case "step":
		return (time.Duration(p.Step) * time.Second).String(), true
	}
	return "", false
}

// ParseRefresh accepts auto, disabled, plain seconds or a Go duration.
func ParseRefresh(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return RefreshAuto, nil
	case "disabled", "off":
		return RefreshDisabled, nil
	}
	secs, err := parseSeconds(s)
	if err != nil || !slices.Contains(RefreshValues, secs) || secs < 0 {
		return 0, errors.NewConfigError("refresh", s,
			"Use auto, disabled, 1s, 2s, 3s, 4s, 5s, 10s, 15s, 30s or 1m")
	}
	return secs, nil
}

// FormatRefresh renders a refresh value the way the controls show it.
func FormatRefresh(secs int) string {
	switch secs {
	case RefreshAuto:
		return "auto"
	case RefreshDisabled:
		return "disabled"
	}
	return (time.Duration(secs) * time.Second).String()
}

func parseSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("%s is not a whole number of seconds", s)
	}
	return int(d / time.Second), nil
}

// PushFilterHistory moves filter to the front of the history. Empty filters
// are not remembered.
func (p *Prefs) PushFilterHistory(filter string) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return
	}
	history := []string{filter}
	for _, f := range p.FilterHistory {
		if f != filter && len(history) < MaxFilterHistory {
			history = append(history, f)
		}
	}
	p.FilterHistory = history
}

// IsCollapsed reports whether a cluster is folded.
func (p *Prefs) IsCollapsed(cluster string) bool {
	return slices.Contains(p.Collapsed, cluster)
}

// ToggleCollapsed folds or unfolds a cluster and returns the new state.
func (p *Prefs) ToggleCollapsed(cluster string) bool {
	if i := slices.Index(p.Collapsed, cluster); i >= 0 {
		p.Collapsed = slices.Delete(p.Collapsed, i, i+1)
		return false
	}
	p.Collapsed = append(p.Collapsed, cluster)
	slices.Sort(p.Collapsed)
	return true
}
