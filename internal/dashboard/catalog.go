package dashboard

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/watch"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

// reloadCatalog discards every widget and fetches the metric listing for the
// current time range. A newer reload supersedes an older one still in flight.
func (m *Model) reloadCatalog() {
	if m.closed {
		return
	}
	m.destroyWidgets()
	m.loading = true
	m.loadErr = nil
	m.generation++
	gen := m.generation

	r := m.picker.Dates()
	step := m.prefs.StepDuration()
	gw := m.gw
	m.log.Debug("fetching catalog for %s", r)

	m.sched.Go(func(ctx context.Context) func() {
		cat, err := gw.FetchCatalog(ctx, r.From, r.To, step)
		return func() {
			if m.closed || gen != m.generation {
				return
			}
			m.loading = false
			if err != nil {
				m.loadErr = err
				m.notify(LevelError, "Failed to fetch metrics: %s", errors.Summary(err))
				return
			}
			m.loadedAt = m.sched.Now()
			m.build(cat)
			m.notify(LevelInfo, "Fetched %d metrics organized in %d clusters",
				cat.MetricCount(), len(cat.Clusters))
		}
	})
}

// build creates one widget per metric. Nothing is fetched until the layout
// pass reports a widget as visible.
func (m *Model) build(cat *gateway.Catalog) {
	deps := widget.Deps{
		Scheduler:  m.sched,
		Gateway:    m.gw,
		Engine:     m.engine,
		Visibility: m.vis,
		Size:       m.size,
		Logger:     m.log,
		Debounce:   m.debounce,
		Color:      ColorGraph,
	}
	cfg := m.widgetConfig()

	for _, cl := range cat.Clusters {
		c := &cluster{name: cl.Name}
		for _, desc := range cl.Metrics {
			container := watch.NewContainer(fmt.Sprintf("metric-%d", desc.ID))
			w := widget.New(container, desc, cfg, deps)
			m.zoom.Attach(w)
			c.widgets = append(c.widgets, w)
			m.widgets = append(m.widgets, w)
		}
		m.clusters = append(m.clusters, c)
	}

	m.redrawAll()
	m.telemetry.SetWidgets(len(m.widgets))
}

func (m *Model) widgetConfig() widget.Config {
	return widget.Config{
		Range:           m.picker.Supplier(),
		RefreshInterval: m.prefs.RefreshInterval(m.scrape),
		Aggregator:      m.prefs.AggregatorValue(),
		Step:            m.prefs.StepDuration(),
	}
}

func (m *Model) destroyWidgets() {
	for _, w := range m.widgets {
		w.Destroy()
	}
	m.widgets = nil
	m.clusters = nil
	m.items = nil
	m.sel = item{}
	m.scroll = 0
	m.zoom.Forget()
	m.telemetry.SetWidgets(0)
}

// redrawAll applies the filter, verbosity and columns to every widget and
// hides clusters left without a shown widget.
func (m *Model) redrawAll() {
	m.redrawWith(m.prefs.Filter)
}

func (m *Model) redrawWith(filter string) {
	verbosity := m.prefs.VerbosityValue()
	for _, w := range m.widgets {
		w.Redraw(filter, verbosity, m.prefs.Columns)
	}
	for _, c := range m.clusters {
		c.hidden = c.shown() == 0
	}
}

// FilterStats summarizes the effect of the filter and verbosity.
type FilterStats struct {
	Metrics        int
	HiddenMetrics  int
	Clusters       int
	HiddenClusters int
}

func (s FilterStats) String() string {
	return fmt.Sprintf("%d metrics found (%d hidden), organized in %d clusters (%d hidden)",
		s.Metrics, s.HiddenMetrics, s.Clusters, s.HiddenClusters)
}

// Stats counts shown and hidden metrics and clusters. Folded clusters count
// as shown.
func (m *Model) Stats() FilterStats {
	var s FilterStats
	for _, c := range m.clusters {
		shown := c.shown()
		s.Metrics += shown
		s.HiddenMetrics += len(c.widgets) - shown
		if c.hidden {
			s.HiddenClusters++
		} else {
			s.Clusters++
		}
	}
	return s
}
