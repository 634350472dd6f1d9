package dashboard

import (
	"github.com/rileyhilliard/statgrid/internal/watch"
)

// gridUnits is the number of column units in a row. A widget spans
// 12/columns units.
const gridUnits = 12

// relayout positions every container in content coordinates, then lets the
// monitors report what changed. Sizes are evaluated before visibility so a
// widget becoming visible starts its first fetch at its final width.
func (m *Model) relayout() {
	width := m.width
	y := 0
	m.items = m.items[:0]

	for _, c := range m.clusters {
		if c.hidden {
			for _, w := range c.widgets {
				w.Container().SetRect(watch.Rect{})
			}
			continue
		}

		c.headerY = y
		y++
		m.items = append(m.items, item{cluster: c})
		collapsed := m.prefs.IsCollapsed(c.name)

		col := 0
		for _, w := range c.widgets {
			ct := w.Container()
			if collapsed || ct.Hidden() || width <= 0 {
				ct.SetRect(watch.Rect{})
				continue
			}
			span := ct.Span()
			if col+span > gridUnits {
				y += m.cardHeight
				col = 0
			}
			x0 := col * width / gridUnits
			x1 := (col + span) * width / gridUnits
			ct.SetRect(watch.Rect{X: x0, Y: y, W: x1 - x0, H: m.cardHeight})
			col += span
			m.items = append(m.items, item{cluster: c, widget: w})
		}
		if col > 0 {
			y += m.cardHeight
		}
	}

	m.contentHeight = y
	m.scroll = clamp(m.scroll, 0, max(0, m.contentHeight-m.bodyHeight()))

	m.size.Evaluate()
	m.vis.Evaluate(m.viewport())
}

// viewport is the visible part of the content.
func (m *Model) viewport() watch.Rect {
	if m.width <= 0 || m.height <= 0 {
		return watch.Rect{}
	}
	return watch.Rect{X: 0, Y: m.scroll, W: m.width, H: m.bodyHeight()}
}

func (m *Model) scrollBy(rows int) {
	m.scroll = clamp(m.scroll+rows, 0, max(0, m.contentHeight-m.bodyHeight()))
}

// selectedIndex returns the position of the selection in items, or -1.
func (m *Model) selectedIndex() int {
	for i, it := range m.items {
		if it == m.sel {
			return i
		}
	}
	return -1
}

// moveSelection moves the selection by delta items and scrolls it into view.
func (m *Model) moveSelection(delta int) {
	if len(m.items) == 0 {
		return
	}
	i := m.selectedIndex()
	if i < 0 {
		i = 0
	} else {
		i = clamp(i+delta, 0, len(m.items)-1)
	}
	m.selectAt(i)
}

func (m *Model) selectAt(i int) {
	if len(m.items) == 0 {
		return
	}
	m.sel = m.items[clamp(i, 0, len(m.items)-1)]
	m.ensureVisible(m.sel)
}

// ensureVisible scrolls the content so the selected row is fully shown.
func (m *Model) ensureVisible(it item) {
	top, bottom := it.cluster.headerY, it.cluster.headerY+1
	if it.widget != nil {
		r := it.widget.Container().Rect()
		top, bottom = r.Y, r.Y+r.H
	}
	body := m.bodyHeight()
	switch {
	case top < m.scroll:
		m.scroll = top
	case bottom > m.scroll+body:
		m.scroll = bottom - body
	}
	m.scroll = max(0, m.scroll)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
