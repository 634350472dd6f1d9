// Package render draws time-series plots into widget containers.
//
// The Engine interface is the boundary the widget controller talks to:
// create a plot, update its data or layout in place, resize it, destroy it,
// and subscribe to pan/zoom relayout events. Terminal is the production
// engine; it draws braille line plots sized from the container.
package render

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/statgrid/internal/watch"
)

// Mode selects how samples are drawn.
type Mode string

const (
	ModeLines        Mode = "lines"
	ModeLinesMarkers Mode = "lines+markers"
)

// Series is one trace. NaN values in Y are gaps.
type Series struct {
	X    []time.Time
	Y    []float64
	Mode Mode
}

// Window is a closed x-axis interval.
type Window struct {
	From time.Time
	To   time.Time
}

// Layout holds the presentation settings of a plot.
type Layout struct {
	Title    string
	Subtitle string
	YTitle   string
	// XRange is the x-axis window. Nil autoranges over Full.
	XRange *Window
	// Full is the data range; it bounds autoranging and keyboard panning.
	Full Window
}

// Config holds settings fixed at creation time.
type Config struct {
	Color       lipgloss.Color
	Interactive bool
}

// Handle identifies a plot inside an engine.
type Handle int

// Relayout is the payload of a pan/zoom event. Keys follow the
// "xaxis.range[0]" / "xaxis.range[1]" / "xaxis.autorange" convention.
type Relayout map[string]any

// Relayout keys.
const (
	KeyRangeStart = "xaxis.range[0]"
	KeyRangeEnd   = "xaxis.range[1]"
	KeyRange      = "xaxis.range"
	KeyAutorange  = "xaxis.autorange"
)

// Engine draws plots.
type Engine interface {
	Create(c *watch.Container, s Series, l Layout, cfg Config) (Handle, error)
	// Update replaces the series and/or layout. Nil arguments are kept.
	Update(h Handle, s *Series, l *Layout) error
	// Resize re-reads the container dimensions.
	Resize(h Handle) error
	Destroy(h Handle)
	// OnRelayout registers fn for pan/zoom events of h.
	OnRelayout(h Handle, fn func(Relayout))
}
