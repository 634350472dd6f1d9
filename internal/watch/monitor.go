package watch

// VisibilityThreshold is the fraction of a container that must be on screen
// for it to count as visible.
const VisibilityThreshold = 0.1

// VisibilityHandler receives visibility transitions.
type VisibilityHandler func(visible bool)

// SizeHandler receives size change hints. It carries no dimensions; readers
// re-read the container.
type SizeHandler func()

type visibilityEntry struct {
	container *Container
	handler   VisibilityHandler
	reported  bool
	visible   bool
}

// VisibilityMonitor reports threshold crossings of observed containers
// against the viewport.
type VisibilityMonitor struct {
	threshold float64
	entries   []*visibilityEntry
}

// NewVisibilityMonitor creates a monitor using VisibilityThreshold.
func NewVisibilityMonitor() *VisibilityMonitor {
	return &VisibilityMonitor{threshold: VisibilityThreshold}
}

// Observe registers c. Re-observing replaces the handler and forces a fresh
// report on the next evaluation.
func (m *VisibilityMonitor) Observe(c *Container, h VisibilityHandler) {
	for _, e := range m.entries {
		if e.container == c {
			e.handler = h
			e.reported = false
			return
		}
	}
	m.entries = append(m.entries, &visibilityEntry{container: c, handler: h})
}

// Unobserve removes c and reports whether it was registered.
func (m *VisibilityMonitor) Unobserve(c *Container) bool {
	for i, e := range m.entries {
		if e.container == c {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Observing reports whether c is registered.
func (m *VisibilityMonitor) Observing(c *Container) bool {
	for _, e := range m.entries {
		if e.container == c {
			return true
		}
	}
	return false
}

// Len returns the number of observed containers.
func (m *VisibilityMonitor) Len() int {
	return len(m.entries)
}

// Evaluate compares every container with the viewport. The first evaluation
// after Observe always reports; later ones report only crossings.
func (m *VisibilityMonitor) Evaluate(viewport Rect) {
	// Handlers may unobserve containers, including their own.
	entries := append([]*visibilityEntry(nil), m.entries...)
	for _, e := range entries {
		if !m.registered(e) {
			continue
		}
		visible := m.ratio(e.container, viewport) >= m.threshold
		if e.reported && e.visible == visible {
			continue
		}
		e.reported = true
		e.visible = visible
		e.handler(visible)
	}
}

func (m *VisibilityMonitor) registered(e *visibilityEntry) bool {
	for _, x := range m.entries {
		if x == e {
			return true
		}
	}
	return false
}

func (m *VisibilityMonitor) ratio(c *Container, viewport Rect) float64 {
	if c.Hidden() {
		return 0
	}
	area := c.Rect().Area()
	if area == 0 {
		return 0
	}
	return float64(c.Rect().Intersect(viewport).Area()) / float64(area)
}

type sizeEntry struct {
	container *Container
	handler   SizeHandler
	reported  bool
	last      Rect
	hidden    bool
}

// SizeMonitor reports container box changes.
type SizeMonitor struct {
	entries []*sizeEntry
}

// NewSizeMonitor creates an empty monitor.
func NewSizeMonitor() *SizeMonitor {
	return &SizeMonitor{}
}

// Observe registers c.
func (m *SizeMonitor) Observe(c *Container, h SizeHandler) {
	for _, e := range m.entries {
		if e.container == c {
			e.handler = h
			e.reported = false
			return
		}
	}
	m.entries = append(m.entries, &sizeEntry{container: c, handler: h})
}

// Unobserve removes c and reports whether it was registered.
func (m *SizeMonitor) Unobserve(c *Container) bool {
	for i, e := range m.entries {
		if e.container == c {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Observing reports whether c is registered.
func (m *SizeMonitor) Observing(c *Container) bool {
	for _, e := range m.entries {
		if e.container == c {
			return true
		}
	}
	return false
}

// Len returns the number of observed containers.
func (m *SizeMonitor) Len() int {
	return len(m.entries)
}

// Evaluate reports every container whose width, height or hidden flag changed
// since the last evaluation. Position changes alone are not reported.
func (m *SizeMonitor) Evaluate() {
	entries := append([]*sizeEntry(nil), m.entries...)
	for _, e := range entries {
		if !m.registered(e) {
			continue
		}
		r, hidden := e.container.Rect(), e.container.Hidden()
		if e.reported && r.W == e.last.W && r.H == e.last.H && hidden == e.hidden {
			continue
		}
		e.reported = true
		e.last, e.hidden = r, hidden
		e.handler()
	}
}

func (m *SizeMonitor) registered(e *sizeEntry) bool {
	for _, x := range m.entries {
		if x == e {
			return true
		}
	}
	return false
}
