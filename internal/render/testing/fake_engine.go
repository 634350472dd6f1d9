// Package testing provides test doubles for the render package.
package testing

import (
	"fmt"

	"github.com/rileyhilliard/statgrid/internal/render"
	"github.com/rileyhilliard/statgrid/internal/watch"
)

// FakePlot is the recorded state of one plot.
type FakePlot struct {
	Container *watch.Container
	Series    render.Series
	Layout    render.Layout
	Config    render.Config
	Listeners []func(render.Relayout)
	Updates   int
	Resizes   int
}

// FakeEngine records engine calls.
type FakeEngine struct {
	plots map[render.Handle]*FakePlot
	next  render.Handle

	// CreateErr, when set, is returned by the next Create call.
	CreateErr error

	// Tracking for assertions
	Creates   int
	Destroyed []render.Handle
}

// NewFakeEngine creates an empty fake.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{plots: make(map[render.Handle]*FakePlot)}
}

func (e *FakeEngine) Create(c *watch.Container, s render.Series, l render.Layout, cfg render.Config) (render.Handle, error) {
	if err := e.CreateErr; err != nil {
		e.CreateErr = nil
		return 0, err
	}
	e.Creates++
	e.next++
	e.plots[e.next] = &FakePlot{Container: c, Series: s, Layout: l, Config: cfg}
	return e.next, nil
}

func (e *FakeEngine) Update(h render.Handle, s *render.Series, l *render.Layout) error {
	p, ok := e.plots[h]
	if !ok {
		return fmt.Errorf("unknown plot %d", h)
	}
	p.Updates++
	if s != nil {
		p.Series = *s
	}
	if l != nil {
		p.Layout = *l
	}
	return nil
}

func (e *FakeEngine) Resize(h render.Handle) error {
	p, ok := e.plots[h]
	if !ok {
		return fmt.Errorf("unknown plot %d", h)
	}
	p.Resizes++
	return nil
}

func (e *FakeEngine) Destroy(h render.Handle) {
	if _, ok := e.plots[h]; ok {
		delete(e.plots, h)
		e.Destroyed = append(e.Destroyed, h)
	}
}

func (e *FakeEngine) OnRelayout(h render.Handle, fn func(render.Relayout)) {
	if p, ok := e.plots[h]; ok {
		p.Listeners = append(p.Listeners, fn)
	}
}

// Plot returns the recorded plot for h, or nil.
func (e *FakeEngine) Plot(h render.Handle) *FakePlot {
	return e.plots[h]
}

// Live returns the number of plots not destroyed.
func (e *FakeEngine) Live() int {
	return len(e.plots)
}

// Emit delivers a relayout event to the listeners of h.
func (e *FakeEngine) Emit(h render.Handle, r render.Relayout) {
	if p, ok := e.plots[h]; ok {
		for _, fn := range p.Listeners {
			fn(r)
		}
	}
}
