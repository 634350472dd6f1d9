package dashboard

import (
	"github.com/rileyhilliard/statgrid/internal/timerange"
	"github.com/rileyhilliard/statgrid/internal/widget"
)

// ZoomSync keeps every widget of the page on the same zoom window and mirrors
// it into the time range picker. Zooming never fetches; the picker only
// changes its displayed dates, and a reset restores the expressions it held
// before the first zoom.
type ZoomSync struct {
	picker  *timerange.Picker
	widgets func() []*widget.Controller

	saved     bool
	savedFrom timerange.Expr
	savedTo   timerange.Expr
	current   *timerange.Range

	// OnChange runs after each broadcast.
	OnChange func()
}

// NewZoomSync creates a coordinator over the widgets returned by widgets.
func NewZoomSync(picker *timerange.Picker, widgets func() []*widget.Controller) *ZoomSync {
	return &ZoomSync{picker: picker, widgets: widgets}
}

// Attach subscribes to the zoom events of w.
func (z *ZoomSync) Attach(w *widget.Controller) widget.ListenerID {
	return w.AddEventListener(widget.EventZoom, z.handle)
}

func (z *ZoomSync) handle(e widget.Event) {
	for _, w := range z.widgets() {
		if w != e.Source {
			w.SetZoomRange(e.Range)
		}
	}

	if e.Range != nil {
		if !z.saved {
			z.savedFrom, z.savedTo = z.picker.Exprs()
			z.saved = true
		}
		r := *e.Range
		z.current = &r
		z.picker.SetDates(r)
	} else {
		z.restore()
	}

	if z.OnChange != nil {
		z.OnChange()
	}
}

func (z *ZoomSync) restore() {
	if z.saved {
		z.picker.SetExprs(z.savedFrom, z.savedTo)
	}
	z.saved = false
	z.current = nil
}

// Current returns the shared zoom window, or nil when not zoomed.
func (z *ZoomSync) Current() *timerange.Range {
	return z.current
}

// Zoomed reports whether a zoom window is active.
func (z *ZoomSync) Zoomed() bool {
	return z.current != nil
}

// Reset clears the zoom on every widget and restores the picker.
func (z *ZoomSync) Reset() {
	if !z.Zoomed() {
		return
	}
	for _, w := range z.widgets() {
		w.SetZoomRange(nil)
	}
	z.restore()
	if z.OnChange != nil {
		z.OnChange()
	}
}

// Forget drops the zoom state without touching widgets or the picker. It is
// used when a new time range is applied explicitly.
func (z *ZoomSync) Forget() {
	z.saved = false
	z.current = nil
}
