package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/gateway"
	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/prefs"
	"github.com/rileyhilliard/statgrid/internal/render"
	"github.com/rileyhilliard/statgrid/internal/schedule"
	"github.com/rileyhilliard/statgrid/internal/telemetry"
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/watch"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

// Screen rows spent outside the widget grid.
const (
	headerRows = 3
	footerRows = 2
)

// DefaultCardHeight is used when Options.CardHeight is not set.
const DefaultCardHeight = 14

// Engine is the render engine the dashboard draws with. Beyond the widget
// contract it returns the drawing of a plot and applies keyboard pan/zoom.
type Engine interface {
	render.Engine
	View(h render.Handle) string
	Interact(h render.Handle, a render.Action) error
}

// Options configures a Model.
type Options struct {
	Scheduler schedule.Scheduler
	Gateway   gateway.Gateway
	Engine    Engine

	// Prefs are the initial control values. Store persists changes; a nil
	// Store keeps them in memory.
	Prefs *prefs.Prefs
	Store *prefs.Store

	ScrapePeriod time.Duration
	CardHeight   int
	Debounce     time.Duration

	// Source names the data source in the header.
	Source string

	Logger    logger.Logger
	Telemetry *telemetry.Metrics
}

type promptKind int

const (
	promptNone promptKind = iota
	promptFilter
	promptRange
)

// cluster is one group of widgets on the page.
type cluster struct {
	name    string
	widgets []*widget.Controller
	hidden  bool
	headerY int
}

// shown returns the number of widgets passing the filter.
func (c *cluster) shown() int {
	n := 0
	for _, w := range c.widgets {
		if !w.Hidden() {
			n++
		}
	}
	return n
}

// item is one navigable row: a cluster header or a widget card.
type item struct {
	cluster *cluster
	widget  *widget.Controller
}

// Model is the Bubble Tea model of the dashboard. It is used through a
// pointer: widget callbacks and fetch continuations capture it and run on
// the Update goroutine.
type Model struct {
	sched     schedule.Scheduler
	gw        gateway.Gateway
	engine    Engine
	log       logger.Logger
	telemetry *telemetry.Metrics
	source    string

	scrape     time.Duration
	cardHeight int
	debounce   time.Duration

	prefs  *prefs.Prefs
	store  *prefs.Store
	picker *timerange.Picker
	zoom   *ZoomSync
	vis    *watch.VisibilityMonitor
	size   *watch.SizeMonitor
	notes  notifier

	keys   KeyMap
	help   help.Model
	input  textinput.Model
	prompt promptKind
	// filterBefore is restored when the filter prompt is cancelled.
	filterBefore string
	historyIdx   int

	clusters   []*cluster
	widgets    []*widget.Controller
	loading    bool
	loadErr    error
	loadedAt   time.Time
	generation int
	closed     bool

	width         int
	height        int
	scroll        int
	contentHeight int
	items         []item
	sel           item

	showHelp bool
	quitting bool
}

// NewModel creates the dashboard. The catalog is fetched by Init.
func NewModel(opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	if opts.ScrapePeriod <= 0 {
		opts.ScrapePeriod = gateway.DefaultScrapePeriod
	}
	if opts.CardHeight <= 0 {
		opts.CardHeight = DefaultCardHeight
	}
	p := opts.Prefs
	if p == nil {
		p = prefs.Default(opts.ScrapePeriod)
	}

	m := &Model{
		sched:      opts.Scheduler,
		gw:         opts.Gateway,
		engine:     opts.Engine,
		log:        logger.Named(log, "dashboard"),
		telemetry:  opts.Telemetry,
		source:     opts.Source,
		scrape:     opts.ScrapePeriod,
		cardHeight: opts.CardHeight,
		debounce:   opts.Debounce,
		prefs:      p,
		store:      opts.Store,
		vis:        watch.NewVisibilityMonitor(),
		size:       watch.NewSizeMonitor(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		input:      textinput.New(),
		historyIdx: -1,
	}
	m.notes.sched = opts.Scheduler

	picker, err := timerange.NewPicker(p.From, p.To, opts.Scheduler.Now)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid time range "+p.From+" .. "+p.To,
			"Use now, now-1h or a date like 2024-03-01 12:00")
	}
	m.picker = picker
	m.zoom = NewZoomSync(picker, m.Widgets)

	return m, nil
}

// Init fetches the catalog.
func (m *Model) Init() tea.Cmd {
	m.reloadCatalog()
	return nil
}

// Update handles messages. Every message ends with a layout pass, which is
// what drives widget visibility and size notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case schedule.CallbackMsg:
		msg.Run()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-20)

	case tea.KeyMsg:
		cmd = m.HandleKeyMsg(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.scrollBy(3)
		}
	}

	if !m.quitting && !m.closed {
		m.relayout()
	}
	return m, cmd
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Close destroys every widget. Later callbacks are ignored.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.destroyWidgets()
	m.notes.dismiss()
	m.closed = true
}

// bodyHeight is the number of rows available to the widget grid.
func (m *Model) bodyHeight() int {
	return max(1, m.height-headerRows-footerRows)
}

func (m *Model) notify(level Level, format string, args ...any) {
	n := m.notes.post(level, format, args...)
	switch level {
	case LevelError:
		m.log.Error("%s", n.Message)
	case LevelWarning:
		m.log.Warn("%s", n.Message)
	default:
		m.log.Info("%s", n.Message)
	}
}

// Widgets returns every widget of the page in display order.
func (m *Model) Widgets() []*widget.Controller {
	return m.widgets
}

// Clusters returns the cluster names in display order.
func (m *Model) Clusters() []string {
	names := make([]string, len(m.clusters))
	for i, c := range m.clusters {
		names[i] = c.name
	}
	return names
}

// Notification returns the current status line message, or nil.
func (m *Model) Notification() *Notification {
	return m.notes.current
}

// Prefs returns the live control values.
func (m *Model) Prefs() *prefs.Prefs {
	return m.prefs
}

// Picker returns the global time range control.
func (m *Model) Picker() *timerange.Picker {
	return m.picker
}

// Zoom returns the zoom coordinator.
func (m *Model) Zoom() *ZoomSync {
	return m.zoom
}

// Loading reports whether a catalog fetch is in flight.
func (m *Model) Loading() bool {
	return m.loading
}

// Selected returns the selected widget, or nil when a cluster header or
// nothing is selected.
func (m *Model) Selected() *widget.Controller {
	return m.sel.widget
}

// Scroll returns the first content row shown.
func (m *Model) Scroll() int {
	return m.scroll
}
