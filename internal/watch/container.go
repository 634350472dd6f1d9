// Package watch tracks where widget containers sit on screen. The dashboard
// lays containers out, then asks the process-wide monitors to report which
// ones crossed the visibility threshold and which ones changed size.
package watch

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ChromeCells is the horizontal space a card spends outside the plot: border,
// padding and the y-axis gutter.
const ChromeCells = 12

// ChromeRows is the vertical space a card spends outside the plot: border,
// title, x-axis and footer.
const ChromeRows = 5

// SubColumns is the number of plot dots per terminal cell (braille).
const SubColumns = 2

// Container is the screen box owned by one widget.
type Container struct {
	ID     string
	rect   Rect
	hidden bool
	span   int
}

// NewContainer creates an unplaced container.
func NewContainer(id string) *Container {
	return &Container{ID: id, span: 12}
}

// Rect returns the last laid out position.
func (c *Container) Rect() Rect {
	return c.rect
}

// SetRect records the laid out position.
func (c *Container) SetRect(r Rect) {
	c.rect = r
}

// Hidden reports whether the container is filtered out.
func (c *Container) Hidden() bool {
	return c.hidden
}

// SetHidden shows or hides the container.
func (c *Container) SetHidden(hidden bool) {
	c.hidden = hidden
}

// Span returns the container width in 12ths of a row.
func (c *Container) Span() int {
	return c.span
}

// SetSpan sets the width in 12ths of a row.
func (c *Container) SetSpan(span int) {
	if span < 1 || span > 12 {
		span = 12
	}
	c.span = span
}

// PixelWidth returns the plot width in dots. It is zero while the container
// is hidden or not laid out yet.
func (c *Container) PixelWidth() int {
	if c.hidden || c.rect.Empty() {
		return 0
	}
	inner := c.rect.W - ChromeCells
	if inner <= 0 {
		return 0
	}
	return inner * SubColumns
}

// PlotRows returns the plot height in terminal rows, at least one.
func (c *Container) PlotRows() int {
	return max(1, c.rect.H-ChromeRows)
}
