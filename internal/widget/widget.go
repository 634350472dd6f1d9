// Package widget implements the lifecycle of one dashboard widget: a plot of
// one metric that fetches its own data, keeps it fresh while visible and
// follows the shared zoom window.
//
// A Controller is driven entirely from the dashboard loop. Fetches run off
// the loop through schedule.Scheduler.Go and their results are applied back
// on it, so no state is guarded by locks. Re-entrancy is handled by the
// initializing/refreshing flags plus pendingRefresh.
package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/metric"
	"github.com/rileyhilliard/statgrid/internal/render"
	"github.com/rileyhilliard/statgrid/internal/schedule"
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/watch"
)

// State is the lifecycle stage of a widget.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "uninitialized"
	}
}

// Verbosity controls whether debug metrics are shown.
type Verbosity string

const (
	VerbosityNormal Verbosity = "normal"
	VerbosityDebug  Verbosity = "debug"
)

// Failure is the error decoration of a widget.
type Failure struct {
	Message string
	At      time.Time
	Err     error
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.At.Format(time.TimeOnly), f.Message)
}

// Config is the externally assigned configuration of a widget.
type Config struct {
	// Range is evaluated on every fetch.
	Range timerange.Supplier
	// RefreshInterval of zero disables automatic refreshes.
	RefreshInterval time.Duration
	Aggregator      metric.Aggregator
	// Step is the base step before width based scaling.
	Step time.Duration
}

// GraphState is the data behind the rendered plot.
type GraphState struct {
	X    []time.Time
	Y    []float64
	Step time.Duration
	// Full is the fetched range with its right edge moved back one step.
	Full timerange.Range
	// Zoom is nil when the plot shows the full range.
	Zoom *timerange.Range
	Mode render.Mode
}

// VisibilityObserver is the process-wide visibility registry.
type VisibilityObserver interface {
	Observe(c *watch.Container, h watch.VisibilityHandler)
	Unobserve(c *watch.Container) bool
}

// SizeObserver is the process-wide size registry.
type SizeObserver interface {
	Observe(c *watch.Container, h watch.SizeHandler)
	Unobserve(c *watch.Container) bool
}

// Deps are the collaborators shared by all widgets of a dashboard.
type Deps struct {
	Scheduler  schedule.Scheduler
	Gateway    gateway.Gateway
	Engine     render.Engine
	Visibility VisibilityObserver
	Size       SizeObserver
	Logger     logger.Logger
	// Debounce is the trailing delay of coalesced refreshes.
	Debounce time.Duration
	Color    lipgloss.Color
}

// Controller owns the display lifecycle of one metric.
type Controller struct {
	container *watch.Container
	metric    metric.Descriptor
	cfg       Config
	deps      Deps
	log       logger.Logger

	state          State
	visible        bool
	initializing   bool
	refreshing     bool
	pendingRefresh bool
	destroyed      bool
	lastRefreshAt  time.Time
	failure        *Failure

	graph  *GraphState
	handle render.Handle
	zoom   *timerange.Range

	repeater  *schedule.Repeater
	debouncer *schedule.Debouncer
	listeners Listeners
}

// New creates a widget for m and registers it with both monitors. Nothing is
// fetched until the widget becomes visible.
func New(c *watch.Container, m metric.Descriptor, cfg Config, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = logger.Noop()
	}
	w := &Controller{
		container: c,
		metric:    m,
		cfg:       cfg,
		deps:      deps,
		log:       logger.Named(deps.Logger, "widget."+m.Name),
	}
	w.repeater = schedule.NewRepeater(deps.Scheduler, w.handleRefresh)
	w.debouncer = schedule.NewDebouncer(deps.Scheduler, deps.Debounce, w.handleRefresh)

	deps.Visibility.Observe(c, w.SetVisible)
	deps.Size.Observe(c, w.HandleSizeChange)
	return w
}

// init fetches and renders the first graph.
func (w *Controller) init() {
	if w.initializing || w.destroyed {
		return
	}
	w.initializing = true
	w.state = Initializing
	w.pendingRefresh = false
	w.log.Debug("initializing")

	w.fetch(func(g *GraphState, err error) {
		w.initializing = false
		if err == nil {
			err = w.create(g)
		}
		if err != nil {
			w.fail(err)
			return
		}

		w.graph = g
		w.state = Ready
		w.failure = nil
		w.lastRefreshAt = w.deps.Scheduler.Now()
		if w.visible {
			w.repeater.Start(w.cfg.RefreshInterval)
		}
		w.followUp()
	})
}

func (w *Controller) create(g *GraphState) error {
	h, err := w.deps.Engine.Create(w.container, w.series(g), w.layout(g), render.Config{
		Color:       w.deps.Color,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	w.handle = h
	w.deps.Engine.OnRelayout(h, w.handleZoom)
	return nil
}

// handleRefresh re-fetches and updates the rendered graph in place. Hidden
// widgets only remember that a refresh is due.
func (w *Controller) handleRefresh() {
	if w.destroyed || w.graph == nil {
		return
	}
	if w.refreshing || !w.visible {
		w.pendingRefresh = true
		return
	}
	w.refreshing = true
	w.pendingRefresh = false
	w.log.Debug("refreshing")

	w.fetch(func(g *GraphState, err error) {
		w.refreshing = false
		if err == nil {
			series, layout := w.series(g), w.layout(g)
			err = w.deps.Engine.Update(w.handle, &series, &layout)
		}
		if err != nil {
			w.fail(err)
			w.followUp()
			return
		}

		w.graph = g
		w.state = Ready
		w.failure = nil
		w.lastRefreshAt = w.deps.Scheduler.Now()
		w.followUp()
	})
}

// followUp runs a refresh that was requested while a fetch was in flight.
func (w *Controller) followUp() {
	if w.pendingRefresh && w.visible {
		w.debouncer.Call()
	}
}

func (w *Controller) fail(err error) {
	w.state = Error
	w.failure = &Failure{
		Message: errors.Summary(err),
		At:      w.deps.Scheduler.Now(),
		Err:     err,
	}
	w.log.Warn("%s", w.failure.Message)
}

// fetch resolves the request on the loop, runs the gateway call off it and
// hands the shaped result to done back on the loop. Results arriving after
// Destroy are dropped.
func (w *Controller) fetch(done func(*GraphState, error)) {
	req, err := w.request()
	if err != nil {
		done(nil, err)
		return
	}
	width := w.container.PixelWidth()
	desc := w.metric
	gw := w.deps.Gateway

	w.deps.Scheduler.Go(func(ctx context.Context) func() {
		s, err := gw.FetchSeries(ctx, req)
		var g *GraphState
		if err == nil {
			g = shape(desc, s, req.Step, width)
		}
		return func() {
			if w.destroyed {
				return
			}
			if g != nil {
				g.Zoom = effectiveZoom(w.zoom, g)
			}
			done(g, err)
		}
	})
}

func (w *Controller) request() (gateway.SeriesRequest, error) {
	if w.cfg.Range == nil {
		return gateway.SeriesRequest{}, errors.New(errors.ErrConfig, "no time range selected", "")
	}
	r, err := w.cfg.Range()
	if err != nil {
		return gateway.SeriesRequest{}, errors.WrapWithCode(err, errors.ErrConfig, "invalid time range", "")
	}
	step, err := EstimateOptimalStep(r.From, r.To, w.cfg.Step, w.container.PixelWidth())
	if err != nil {
		return gateway.SeriesRequest{}, err
	}
	return gateway.SeriesRequest{
		MetricID:   w.metric.ID,
		From:       r.From,
		To:         r.To,
		Step:       step,
		Aggregator: w.metric.EffectiveAggregator(w.cfg.Aggregator),
	}, nil
}

// shape turns a fetched series into plot data.
func shape(desc metric.Descriptor, s *gateway.Series, reqStep time.Duration, width int) *GraphState {
	step := s.Step
	if step <= 0 {
		step = reqStep
	}

	samples := append([]gateway.Sample(nil), s.Samples...)
	gateway.SortSamples(samples)
	samples = FillGaps(samples, step)

	g := &GraphState{
		X:    make([]time.Time, len(samples)),
		Y:    make([]float64, len(samples)),
		Step: step,
		Full: timerange.Range{From: s.From, To: s.To.Add(-step)},
		Mode: EstimateDataMode(len(samples), width),
	}
	if g.Full.To.Before(g.Full.From) {
		g.Full.To = g.Full.From
	}
	for i, sample := range samples {
		g.X[i] = sample.At
		g.Y[i] = desc.Project(sample.Value)
	}
	return g
}

// effectiveZoom clamps a requested zoom window to the data of g. A window
// that misses the data entirely is dropped.
func effectiveZoom(zoom *timerange.Range, g *GraphState) *timerange.Range {
	if zoom == nil {
		return nil
	}
	if zoom.To.Before(g.Full.From) || zoom.From.After(g.Full.To) {
		return nil
	}
	z := ClampZoom(*zoom, g.Full, g.Step)
	if z.Equal(g.Full) {
		return nil
	}
	return &z
}

func (w *Controller) series(g *GraphState) render.Series {
	return render.Series{X: g.X, Y: g.Y, Mode: g.Mode}
}

func (w *Controller) layout(g *GraphState) render.Layout {
	l := render.Layout{
		Title:    w.metric.Name,
		Subtitle: w.metric.Description,
		YTitle:   w.metric.Unit(),
		Full:     render.Window{From: g.Full.From, To: g.Full.To},
	}
	if g.Zoom != nil {
		l.XRange = &render.Window{From: g.Zoom.From, To: g.Zoom.To}
	}
	return l
}

// SetVisible reacts to visibility crossings. Repeated notifications are
// harmless.
func (w *Controller) SetVisible(visible bool) {
	if w.destroyed {
		return
	}
	w.visible = visible

	if !visible {
		w.repeater.Stop()
		if w.debouncer.Pending() {
			w.debouncer.Cancel()
			w.pendingRefresh = true
		}
		return
	}

	if w.graph == nil {
		if w.state == Uninitialized || (w.state == Error && w.pendingRefresh) {
			w.init()
		}
		return
	}

	w.repeater.Start(w.cfg.RefreshInterval)
	if w.pendingRefresh || w.overdue() {
		w.debouncer.Call()
	}
}

func (w *Controller) overdue() bool {
	interval := w.cfg.RefreshInterval
	return interval > 0 && w.deps.Scheduler.Now().Sub(w.lastRefreshAt) > interval
}

// Refresh refreshes now and restarts the refresh timer. After a failed
// first fetch it retries the initialization.
func (w *Controller) Refresh() {
	if w.destroyed {
		return
	}
	if w.graph == nil {
		if w.state != Error {
			return
		}
		if !w.visible {
			w.pendingRefresh = true
			return
		}
		w.init()
		return
	}
	w.restartTimer()
	w.handleRefresh()
}

// HandleSizeChange redraws at the new size and schedules a debounced
// refresh, since the optimal step depends on the width. Before the first
// graph exists the debounced refresh would be a no-op, so a resize during
// initialization is remembered as a pending refresh instead, and a widget
// whose first fetch failed for lack of width retries once it has one.
func (w *Controller) HandleSizeChange() {
	if w.destroyed {
		return
	}
	if w.graph == nil {
		// The first fetch reads the width when it starts.
		if w.initializing {
			w.pendingRefresh = true
		} else if w.waitingForWidth() {
			w.init()
		}
		return
	}
	if !w.container.Hidden() {
		if err := w.deps.Engine.Resize(w.handle); err != nil {
			w.log.Warn("resize failed: %v", err)
		}
	}
	w.debouncer.Call()
}

// waitingForWidth reports whether the first fetch failed only because the
// container had no width, and it has one now.
func (w *Controller) waitingForWidth() bool {
	return w.visible && w.state == Error && w.failure != nil &&
		errors.IsCode(w.failure.Err, errors.ErrEstimate) &&
		w.container.PixelWidth() > 0
}

// handleZoom applies a pan/zoom interaction and broadcasts it.
func (w *Controller) handleZoom(r render.Relayout) {
	if w.destroyed || w.graph == nil {
		return
	}
	rng, reset, ok := ExtractZoom(r)
	if !ok {
		return
	}
	if reset {
		rng = nil
	}
	w.SetZoomRange(rng)
	w.listeners.Notify(Event{Name: EventZoom, Source: w, Range: w.zoom})
}

// SetZoomRange shows r, or the full range when r is nil, without fetching.
func (w *Controller) SetZoomRange(r *timerange.Range) {
	if w.destroyed {
		return
	}
	if r == nil {
		w.zoom = nil
	} else {
		z := *r
		w.zoom = &z
	}
	if w.graph == nil {
		return
	}

	w.graph.Zoom = effectiveZoom(w.zoom, w.graph)
	switch {
	case w.graph.Zoom != nil:
		z := *w.graph.Zoom
		w.zoom = &z
	case w.zoom != nil && w.zoom.Contains(w.graph.Full):
		// A window covering all the data is no zoom.
		w.zoom = nil
	}
	layout := w.layout(w.graph)
	if err := w.deps.Engine.Update(w.handle, nil, &layout); err != nil {
		w.log.Warn("zoom update failed: %v", err)
	}
}

// SetRefreshInterval changes the refresh interval, restarts the timer and
// refreshes. A negative interval is rejected.
func (w *Controller) SetRefreshInterval(d time.Duration) error {
	if d < 0 {
		err := errors.NewConfigError("refresh interval", d, "zero or a positive duration")
		w.log.Warn("%s", errors.Summary(err))
		return err
	}
	w.cfg.RefreshInterval = d
	w.invalidate()
	return nil
}

// SetAggregator changes the aggregator and refreshes.
func (w *Controller) SetAggregator(a metric.Aggregator) error {
	parsed, err := metric.ParseAggregator(string(a))
	if err != nil {
		cerr := errors.NewConfigError("aggregator", a, "one of avg, min, max, first, last, count")
		w.log.Warn("%s", errors.Summary(cerr))
		return cerr
	}
	w.cfg.Aggregator = parsed
	w.invalidate()
	return nil
}

// SetStep changes the base step and refreshes.
func (w *Controller) SetStep(d time.Duration) error {
	if d <= 0 {
		err := errors.NewConfigError("step", d, "a positive duration")
		w.log.Warn("%s", errors.Summary(err))
		return err
	}
	w.cfg.Step = d
	w.invalidate()
	return nil
}

// SetRange replaces the time range supplier and refreshes.
func (w *Controller) SetRange(s timerange.Supplier) {
	w.cfg.Range = s
	w.invalidate()
}

func (w *Controller) invalidate() {
	if w.destroyed {
		return
	}
	w.restartTimer()
	if w.initializing {
		w.pendingRefresh = true
		return
	}
	w.handleRefresh()
}

func (w *Controller) restartTimer() {
	if w.visible && w.graph != nil {
		w.repeater.Restart(w.cfg.RefreshInterval)
		return
	}
	w.repeater.Stop()
}

// Redraw applies the filter, verbosity and column count. A metric is shown
// when its name contains every whitespace separated filter term and it is
// not a debug metric at normal verbosity.
func (w *Controller) Redraw(filter string, verbosity Verbosity, columns int) {
	if w.destroyed {
		return
	}
	hidden := !Matches(w.metric.Name, filter) ||
		(verbosity != VerbosityDebug && w.metric.Debug)
	w.container.SetHidden(hidden)
	if columns > 0 && columns <= 12 {
		w.container.SetSpan(12 / columns)
	}
}

// Matches reports whether name contains every whitespace separated term of
// filter, ignoring case.
func Matches(name, filter string) bool {
	name = strings.ToLower(name)
	for _, term := range strings.Fields(strings.ToLower(filter)) {
		if !strings.Contains(name, term) {
			return false
		}
	}
	return true
}

// Destroy unregisters the widget, stops its timers and releases the plot.
// It is safe to call more than once.
func (w *Controller) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.deps.Visibility.Unobserve(w.container)
	w.deps.Size.Unobserve(w.container)
	w.repeater.Stop()
	w.debouncer.Cancel()
	w.failure = nil
	if w.graph != nil {
		w.deps.Engine.Destroy(w.handle)
	}
	w.listeners.Clear()
	w.log.Debug("destroyed")
}

// AddEventListener registers fn for event name.
func (w *Controller) AddEventListener(name string, fn Listener) ListenerID {
	return w.listeners.Add(name, fn)
}

// RemoveEventListener unregisters a listener.
func (w *Controller) RemoveEventListener(name string, id ListenerID) bool {
	return w.listeners.Remove(name, id)
}

// State returns the lifecycle stage.
func (w *Controller) State() State { return w.state }

// Visible reports the last visibility notification.
func (w *Controller) Visible() bool { return w.visible }

// Hidden reports whether the widget is filtered out.
func (w *Controller) Hidden() bool { return w.container.Hidden() }

// Graph returns the rendered data, or nil before the first success.
func (w *Controller) Graph() *GraphState { return w.graph }

// Failure returns the current error decoration, or nil.
func (w *Controller) Failure() *Failure { return w.failure }

// Metric returns the metric descriptor.
func (w *Controller) Metric() metric.Descriptor { return w.metric }

// Container returns the owned container.
func (w *Controller) Container() *watch.Container { return w.container }

// Handle returns the plot handle once a graph has been rendered.
func (w *Controller) Handle() (render.Handle, bool) { return w.handle, w.graph != nil }

// Config returns the current configuration.
func (w *Controller) Config() Config { return w.cfg }

// PendingRefresh reports whether a refresh was deferred.
func (w *Controller) PendingRefresh() bool { return w.pendingRefresh }

// LastRefreshAt returns the time of the last successful fetch.
func (w *Controller) LastRefreshAt() time.Time { return w.lastRefreshAt }

// Busy reports whether a fetch is in flight.
func (w *Controller) Busy() bool { return w.initializing || w.refreshing }

// Destroyed reports whether Destroy was called.
func (w *Controller) Destroyed() bool { return w.destroyed }
