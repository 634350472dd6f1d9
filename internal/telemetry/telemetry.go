// Package telemetry exposes Prometheus metrics about the dashboard's own
// activity: storage API fetches and live widgets.
package telemetry

import (
	"context"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/logger"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	fetchesTotal    *prometheus.CounterVec
	fetchesInflight prometheus.Gauge
	fetchDuration   *prometheus.HistogramVec
	widgets         prometheus.Gauge
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statgrid_fetches_total",
				Help: "Storage API fetches, partitioned by operation and outcome",
			},
			[]string{"op", "outcome"}),

		fetchesInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "statgrid_fetches_inflight",
				Help: "Storage API fetches in flight",
			}),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statgrid_fetch_duration_seconds",
				Help:    "Storage API fetch duration, partitioned by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"}),

		widgets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "statgrid_widgets",
				Help: "Widgets currently built",
			}),
	}

	m.Registry.MustRegister(
		m.fetchesTotal,
		m.fetchesInflight,
		m.fetchDuration,
		m.widgets,
		collectors.NewGoCollector(),
	)
	return m
}

// StartFetch records a fetch start and returns the function that records its
// end.
func (m *Metrics) StartFetch(op string) func(err error) {
	if m == nil {
		return func(error) {}
	}
	start := time.Now()
	m.fetchesInflight.Inc()
	return func(err error) {
		outcome := OutcomeOK
		if err != nil {
			outcome = OutcomeError
		}
		m.fetchesInflight.Dec()
		m.fetchesTotal.WithLabelValues(op, outcome).Inc()
		m.fetchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// SetWidgets records the number of built widgets.
func (m *Metrics) SetWidgets(n int) {
	if m == nil {
		return
	}
	m.widgets.Set(float64(n))
}

// FetchCount returns the number of recorded fetches for op and outcome.
func (m *Metrics) FetchCount(op, outcome string) float64 {
	if m == nil {
		return 0
	}
	c, err := m.fetchesTotal.GetMetricWithLabelValues(op, outcome)
	if err != nil {
		return 0
	}
	return counterValue(c)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"cannot listen on "+addr,
			"Check telemetry.listen in your config")
	}
	return m.serve(ctx, ln, log)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, log logger.Logger) error {
	metrics := m.Handler()
	server := &fasthttp.Server{
		Name: "statgrid",
		Handler: func(rctx *fasthttp.RequestCtx) {
			if string(rctx.Path()) != "/metrics" {
				rctx.SetStatusCode(fasthttp.StatusNotFound)
				return
			}
			metrics(rctx)
		},
	}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			log.Warn("telemetry shutdown: %v", err)
		}
	}()

	log.Info("serving telemetry on %s", ln.Addr())
	if err := server.Serve(ln); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "telemetry server failed", "")
	}
	return nil
}
