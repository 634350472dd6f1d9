package dashboard

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/prefs"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

// setPref validates and stores one preference. A rejected value is reported
// and the previous one kept.
func (m *Model) setPref(key, value string) bool {
	if err := m.prefs.Set(key, value, m.scrape); err != nil {
		m.notify(LevelError, "%s", errors.Summary(err))
		return false
	}
	m.savePrefs()
	return true
}

func (m *Model) savePrefs() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.prefs); err != nil {
		m.notify(LevelWarning, "Preferences not saved: %s", errors.Summary(err))
	}
}

// ApplyFilter shows the metrics whose name contains every term of filter.
func (m *Model) ApplyFilter(filter string) {
	if m.setPref("filter", filter) {
		m.redrawAll()
	}
}

// ToggleVerbosity switches between normal and debug metrics.
func (m *Model) ToggleVerbosity() {
	next := widget.VerbosityDebug
	if m.prefs.VerbosityValue() == widget.VerbosityDebug {
		next = widget.VerbosityNormal
	}
	if m.setPref("verbosity", string(next)) {
		m.redrawAll()
		m.notify(LevelInfo, "Verbosity: %s", next)
	}
}

// CycleColumns moves to the next column count.
func (m *Model) CycleColumns() {
	next := nextOf(prefs.ColumnValues, m.prefs.Columns)
	if m.setPref("columns", strconv.Itoa(next)) {
		m.redrawAll()
		m.notify(LevelInfo, "Columns: %d", next)
	}
}

// CycleAggregator moves to the next aggregator and refreshes every widget.
func (m *Model) CycleAggregator() {
	next := nextOf(metric.Aggregators, m.prefs.AggregatorValue())
	if !m.setPref("aggregator", string(next)) {
		return
	}
	for _, w := range m.widgets {
		_ = w.SetAggregator(next)
	}
	m.notify(LevelInfo, "Aggregator: %s", next)
}

// CycleRefreshInterval moves to the next refresh interval. Auto follows the
// scrape period.
func (m *Model) CycleRefreshInterval() {
	next := nextOf(prefs.RefreshValues, m.prefs.Refresh)
	if !m.setPref("refresh", prefs.FormatRefresh(next)) {
		return
	}
	m.applyRefreshInterval()
	m.notify(LevelInfo, "Refresh: %s", m.refreshLabel())
}

func (m *Model) applyRefreshInterval() {
	d := m.prefs.RefreshInterval(m.scrape)
	for _, w := range m.widgets {
		_ = w.SetRefreshInterval(d)
	}
}

// ChangeStep doubles (up) or halves the base step, never going below the
// scrape period.
func (m *Model) ChangeStep(up bool) {
	step := m.prefs.StepDuration()
	if up {
		step *= 2
	} else {
		step = max(m.scrape, (step/2).Truncate(time.Second))
	}
	if step == m.prefs.StepDuration() {
		m.notify(LevelWarning, "Step must be at least %s, which is the metrics scraping period", m.scrape)
		return
	}
	if !m.setPref("step", step.String()) {
		return
	}
	for _, w := range m.widgets {
		_ = w.SetStep(step)
	}
	m.notify(LevelInfo, "Step: %s", step)
}

// RefreshAll restarts every widget's timer and refreshes the visible ones
// now.
func (m *Model) RefreshAll() {
	for _, w := range m.widgets {
		w.Refresh()
	}
}

// ApplyRange validates a new time range, stores it and rebuilds the page,
// since a different range can hold a different set of metrics.
func (m *Model) ApplyRange(from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if err := m.picker.SetRaw(from, to); err != nil {
		m.notify(LevelError,
			"The selected time range is invalid. Absolute dates and relative expressions like 'now-1h', 'now' or 'now-1d' are allowed.")
		return false
	}
	m.zoom.Forget()
	m.prefs.From, m.prefs.To = m.picker.Raw()
	m.savePrefs()
	m.reloadCatalog()
	return true
}

// Reload resets the zoom and fetches the catalog again.
func (m *Model) Reload() {
	m.zoom.Reset()
	m.reloadCatalog()
}

// ToggleFold folds or unfolds the cluster of the selection.
func (m *Model) ToggleFold() {
	c := m.sel.cluster
	if c == nil {
		return
	}
	folded := m.prefs.ToggleCollapsed(c.name)
	m.sel = item{cluster: c}
	m.savePrefs()
	if folded {
		m.ensureVisible(m.sel)
	}
}

// FoldAll folds (or unfolds) every cluster.
func (m *Model) FoldAll(fold bool) {
	for _, c := range m.clusters {
		if m.prefs.IsCollapsed(c.name) != fold {
			m.prefs.ToggleCollapsed(c.name)
		}
	}
	if m.sel.cluster != nil {
		m.sel = item{cluster: m.sel.cluster}
	}
	m.savePrefs()
}

func (m *Model) refreshLabel() string {
	if m.prefs.Refresh == prefs.RefreshAuto {
		return "auto (" + m.scrape.String() + ")"
	}
	return prefs.FormatRefresh(m.prefs.Refresh)
}

// nextOf returns the element after cur, wrapping around. An unknown cur
// yields the first element.
func nextOf[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}
