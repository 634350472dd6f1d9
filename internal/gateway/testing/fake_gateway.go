// Package testing provides test doubles for the gateway package.
package testing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/statgrid/internal/gateway"
)

// SeriesFunc produces a response for a series request.
type SeriesFunc func(req gateway.SeriesRequest) (*gateway.Series, error)

// FakeGateway serves canned catalogs and series and records every call.
type FakeGateway struct {
	mu         sync.Mutex
	catalog    *gateway.Catalog
	catalogErr error
	series     map[int]SeriesFunc

	// Tracking for assertions
	CatalogCalls int
	SeriesCalls  []gateway.SeriesRequest
}

// NewFakeGateway creates a fake with an empty catalog.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		catalog: &gateway.Catalog{},
		series:  make(map[int]SeriesFunc),
	}
}

// SetCatalog sets the catalog response.
func (g *FakeGateway) SetCatalog(c *gateway.Catalog, err error) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.catalog, g.catalogErr = c, err
	return g
}

// SetSeries sets a fixed series response for a metric.
func (g *FakeGateway) SetSeries(id int, s *gateway.Series, err error) *FakeGateway {
	return g.SetSeriesFunc(id, func(gateway.SeriesRequest) (*gateway.Series, error) {
		return s, err
	})
}

// SetSeriesFunc sets a dynamic series response for a metric.
func (g *FakeGateway) SetSeriesFunc(id int, fn SeriesFunc) *FakeGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.series[id] = fn
	return g
}

func (g *FakeGateway) FetchCatalog(ctx context.Context, from, to time.Time, step time.Duration) (*gateway.Catalog, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.CatalogCalls++
	if g.catalogErr != nil {
		return nil, g.catalogErr
	}
	return g.catalog, nil
}

func (g *FakeGateway) FetchSeries(ctx context.Context, req gateway.SeriesRequest) (*gateway.Series, error) {
	g.mu.Lock()
	g.SeriesCalls = append(g.SeriesCalls, req)
	fn, ok := g.series[req.MetricID]
	g.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no series configured for metric %d", req.MetricID)
	}
	return fn(req)
}

// SeriesCallCount returns the number of series fetches for a metric.
func (g *FakeGateway) SeriesCallCount(id int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, r := range g.SeriesCalls {
		if r.MetricID == id {
			n++
		}
	}
	return n
}

// LastSeriesCall returns the most recent series request.
func (g *FakeGateway) LastSeriesCall() (gateway.SeriesRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.SeriesCalls) == 0 {
		return gateway.SeriesRequest{}, false
	}
	return g.SeriesCalls[len(g.SeriesCalls)-1], true
}
