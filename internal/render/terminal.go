package render

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/watch"
)

// gutterCells is the width of the y-axis label column, separator included.
const gutterCells = watch.ChromeCells - 4

// Action is a keyboard pan/zoom interaction.
type Action int

const (
	ZoomIn Action = iota
	ZoomOut
	PanLeft
	PanRight
	ResetZoom
)

var (
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B8D"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	unitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4D0"))
)

// DefaultColor is used for plots created without a color.
const DefaultColor = lipgloss.Color("#00FFFF")

type plot struct {
	container *watch.Container
	series    Series
	layout    Layout
	cfg       Config
	listeners []func(Relayout)
	view      string
}

// Terminal renders braille plots. It is not safe for concurrent use; all
// calls happen on the dashboard loop.
type Terminal struct {
	plots map[Handle]*plot
	next  Handle
}

// NewTerminal creates an empty engine.
func NewTerminal() *Terminal {
	return &Terminal{plots: make(map[Handle]*plot)}
}

// Create adds a plot bound to c.
func (t *Terminal) Create(c *watch.Container, s Series, l Layout, cfg Config) (Handle, error) {
	if c == nil {
		return 0, errors.New(errors.ErrRender, "cannot create plot without a container", "")
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	t.next++
	p := &plot{container: c, series: s, layout: l, cfg: cfg}
	p.draw()
	t.plots[t.next] = p
	return t.next, nil
}

// Update replaces the series and/or layout of h and redraws it.
func (t *Terminal) Update(h Handle, s *Series, l *Layout) error {
	p, err := t.lookup(h)
	if err != nil {
		return err
	}
	if s != nil {
		p.series = *s
	}
	if l != nil {
		p.layout = *l
	}
	p.draw()
	return nil
}

// Resize redraws h at the container's current size.
func (t *Terminal) Resize(h Handle) error {
	p, err := t.lookup(h)
	if err != nil {
		return err
	}
	p.draw()
	return nil
}

// Destroy releases h. Unknown handles are ignored.
func (t *Terminal) Destroy(h Handle) {
	delete(t.plots, h)
}

// OnRelayout registers fn for pan/zoom events of h.
func (t *Terminal) OnRelayout(h Handle, fn func(Relayout)) {
	if p, ok := t.plots[h]; ok {
		p.listeners = append(p.listeners, fn)
	}
}

// Len returns the number of live plots.
func (t *Terminal) Len() int {
	return len(t.plots)
}

// View returns the last drawing of h, or "" for unknown handles.
func (t *Terminal) View(h Handle) string {
	if p, ok := t.plots[h]; ok {
		return p.view
	}
	return ""
}

// Interact applies a keyboard pan/zoom to h and emits the resulting relayout
// event. The plot itself only changes when its owner updates the layout.
func (t *Terminal) Interact(h Handle, a Action) error {
	p, err := t.lookup(h)
	if err != nil {
		return err
	}
	if !p.cfg.Interactive {
		return nil
	}

	var event Relayout
	if a == ResetZoom {
		event = Relayout{KeyAutorange: true}
	} else {
		w := p.window()
		span := w.To.Sub(w.From)
		if span <= 0 {
			return nil
		}
		mid := w.From.Add(span / 2)
		switch a {
		case ZoomIn:
			w = Window{From: mid.Add(-span / 4), To: mid.Add(span / 4)}
		case ZoomOut:
			w = Window{From: mid.Add(-span), To: mid.Add(span)}
		case PanLeft:
			w = Window{From: w.From.Add(-span / 4), To: w.To.Add(-span / 4)}
		case PanRight:
			w = Window{From: w.From.Add(span / 4), To: w.To.Add(span / 4)}
		}
		event = Relayout{KeyRangeStart: w.From, KeyRangeEnd: w.To}
	}

	for _, fn := range slices.Clone(p.listeners) {
		fn(event)
	}
	return nil
}

func (t *Terminal) lookup(h Handle) (*plot, error) {
	p, ok := t.plots[h]
	if !ok {
		return nil, errors.New(errors.ErrRender, fmt.Sprintf("unknown plot handle %d", h), "")
	}
	return p, nil
}

// window returns the visible x-axis interval.
func (p *plot) window() Window {
	if p.layout.XRange != nil {
		return *p.layout.XRange
	}
	if !p.layout.Full.From.IsZero() || !p.layout.Full.To.IsZero() {
		return p.layout.Full
	}
	if n := len(p.series.X); n > 0 {
		return Window{From: p.series.X[0], To: p.series.X[n-1]}
	}
	return Window{}
}

func (p *plot) draw() {
	rect := p.container.Rect()
	cols := rect.W - watch.ChromeCells
	if p.container.Hidden() || cols <= 0 {
		p.view = ""
		return
	}
	rows := p.container.PlotRows()
	width := cols + gutterCells

	var lines []string
	lines = append(lines, p.titleLine(width))

	w := p.window()
	c := newCanvas(cols, rows)
	lo, hi, ok := p.plotSeries(c, w)

	plotStyle := lipgloss.NewStyle().Foreground(p.cfg.Color)
	body := c.lines()
	for i, row := range body {
		label := ""
		switch {
		case !ok:
		case i == 0:
			label = FormatValue(hi)
		case i == rows-1:
			label = FormatValue(lo)
		case rows > 2 && i == rows/2:
			label = FormatValue((lo + hi) / 2)
		}
		gutter := axisStyle.Render(fmt.Sprintf("%*s │", gutterCells-2, label))
		if !ok && i == rows/2 {
			row = centered("no data", cols)
			lines = append(lines, gutter+axisStyle.Render(row))
			continue
		}
		lines = append(lines, gutter+plotStyle.Render(row))
	}

	lines = append(lines, p.axisLine(w, cols))
	p.view = strings.Join(lines, "\n")
}

func (p *plot) titleLine(width int) string {
	title := p.layout.Title
	unit := ""
	if p.layout.YTitle != "" {
		unit = " [" + p.layout.YTitle + "]"
	}
	if lipgloss.Width(title)+lipgloss.Width(unit) > width {
		keep := max(0, width-lipgloss.Width(unit)-1)
		title = truncate(title, keep)
	}
	return titleStyle.Render(title) + unitStyle.Render(unit)
}

func (p *plot) axisLine(w Window, cols int) string {
	pad := strings.Repeat(" ", gutterCells)
	if w.From.IsZero() && w.To.IsZero() {
		return pad
	}
	layout := timeLayout(w.To.Sub(w.From))
	left := w.From.Local().Format(layout)
	right := w.To.Local().Format(layout)
	gap := cols - len(left) - len(right)
	if gap < 1 {
		return axisStyle.Render(pad + truncate(left, cols))
	}
	return axisStyle.Render(pad + left + strings.Repeat(" ", gap) + right)
}

// plotSeries draws the samples inside w and returns the y bounds used.
func (p *plot) plotSeries(c *canvas, w Window) (lo, hi float64, ok bool) {
	xs, ys := p.series.X, p.series.Y
	n := min(len(xs), len(ys))
	span := w.To.Sub(w.From)
	if n == 0 || span <= 0 {
		return 0, 0, false
	}

	inWindow := func(i int) bool {
		return !xs[i].Before(w.From) && !xs[i].After(w.To)
	}
	lo, hi, ok = finiteBounds(ys[:n], inWindow)
	if !ok {
		return 0, 0, false
	}

	dotW, dotH := c.dotWidth(), c.dotHeight()
	px := func(t time.Time) int {
		return int(math.Round(float64(t.Sub(w.From)) / float64(span) * float64(dotW-1)))
	}
	py := func(v float64) int {
		return int(math.Round((hi - v) / (hi - lo) * float64(dotH-1)))
	}

	markers := p.series.Mode == ModeLinesMarkers
	prev := -1
	for i := 0; i < n; i++ {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			prev = -1
			continue
		}
		x, y := px(xs[i]), py(ys[i])
		if prev >= 0 {
			x0 := px(xs[prev])
			// Skip segments entirely left or right of the window.
			if !(x0 < 0 && x < 0) && !(x0 >= dotW && x >= dotW) {
				c.line(x0, py(ys[prev]), x, y)
			}
		} else {
			c.set(x, y)
		}
		if markers && inWindow(i) {
			c.marker(x, y)
		}
		prev = i
	}
	return lo, hi, true
}

func centered(s string, width int) string {
	if len(s) >= width {
		return truncate(s, width)
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
