package gateway

import (
	"context"
	"time"

	"github.com/rileyhilliard/statgrid/internal/logger"
	"github.com/rileyhilliard/statgrid/internal/telemetry"
)

// Instrumented decorates a Gateway with logging and fetch metrics.
type Instrumented struct {
	next    Gateway
	metrics *telemetry.Metrics
	log     logger.Logger
}

// Instrument wraps g. Nil metrics record nothing; a nil logger logs nothing.
func Instrument(g Gateway, m *telemetry.Metrics, log logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Noop()
	}
	return &Instrumented{next: g, metrics: m, log: log}
}

func (g *Instrumented) FetchCatalog(ctx context.Context, from, to time.Time, step time.Duration) (*Catalog, error) {
	done := g.metrics.StartFetch("catalog")
	c, err := g.next.FetchCatalog(ctx, from, to, step)
	done(err)
	if err != nil {
		g.log.Warn("catalog fetch failed: %v", err)
		return nil, err
	}
	g.log.Debug("catalog fetched: %d metrics in %d clusters", c.MetricCount(), len(c.Clusters))
	return c, nil
}

func (g *Instrumented) FetchSeries(ctx context.Context, req SeriesRequest) (*Series, error) {
	done := g.metrics.StartFetch("series")
	s, err := g.next.FetchSeries(ctx, req)
	done(err)
	if err != nil {
		g.log.Warn("series fetch for metric %d failed: %v", req.MetricID, err)
		return nil, err
	}
	g.log.Debug("series fetched for metric %d: %d samples, step %s", req.MetricID, len(s.Samples), s.Step)
	return s, nil
}
