package gateway

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"time"

	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/metric"
)

// DefaultScrapePeriod is the sampling period of the demo store.
const DefaultScrapePeriod = 20 * time.Second

type demoMetric struct {
	desc metric.Descriptor
	gen  func(t time.Time) metric.Value
}

// Demo is an in-process store with synthetic, deterministic data. It lets the
// dashboard run without a storage API.
type Demo struct {
	period  time.Duration
	latency time.Duration
	metrics []demoMetric
}

// NewDemo builds the demo store. A non-positive period uses
// DefaultScrapePeriod.
func NewDemo(period, latency time.Duration) *Demo {
	if period <= 0 {
		period = DefaultScrapePeriod
	}
	d := &Demo{period: period, latency: latency}

	add := func(name, desc string, kind metric.Kind, format metric.Format, gen func(time.Time) metric.Value) {
		d.metrics = append(d.metrics, demoMetric{
			desc: metric.Descriptor{
				ID:          len(d.metrics) + 1,
				Name:        name,
				Description: desc,
				Kind:        kind,
				Format:      format,
			},
			gen: gen,
		})
	}

	add("MGT.uptime", "Management process uptime", metric.Counter, metric.Duration, constant(1))
	add("MGT.child_start", "Child process started", metric.Counter, metric.Integer, constant(0))
	add("MAIN.uptime", "Child process uptime", metric.Counter, metric.Duration, constant(1))
	add("MAIN.client_req", "Good client requests received", metric.Counter, metric.Integer, wave("client_req", 850, 300, time.Hour))
	add("MAIN.cache_hit", "Cache hits", metric.Counter, metric.Integer, wave("cache_hit", 640, 240, time.Hour))
	add("MAIN.cache_miss", "Cache misses", metric.Counter, metric.Integer, wave("cache_miss", 180, 60, 20*time.Minute))
	add("MAIN.s_resp_bodybytes", "Response body bytes", metric.Counter, metric.Bytes, wave("s_resp_bodybytes", 4.2e6, 1.5e6, time.Hour))
	add("MAIN.n_object", "object structs made", metric.Gauge, metric.Integer, wave("n_object", 120000, 8000, 6*time.Hour))
	add("MAIN.threads", "Total number of threads", metric.Gauge, metric.Integer, steps(200, 50, 15*time.Minute))
	add("MAIN.backend_conn", "Backend conn. success", metric.Counter, metric.Integer, outage(wave("backend_conn", 90, 30, time.Hour)))
	add("SMA.s0.g_bytes", "Bytes outstanding", metric.Gauge, metric.Bytes, wave("g_bytes", 2.5e9, 4e8, 3*time.Hour))
	add("SMA.s0.c_fail", "Allocator failures", metric.Counter, metric.Integer, constant(0))
	add("VBE.boot.default.req", "Backend requests sent", metric.Counter, metric.Integer, outage(wave("vbe_req", 90, 30, time.Hour)))
	add("VBE.boot.default.happy", "Happy health probes", metric.Bitmap, metric.BitmapFormat, probes("happy"))
	add("VBE.boot.default.conn", "Concurrent connections used", metric.Gauge, metric.Integer, wave("vbe_conn", 12, 6, 10*time.Minute))
	add("LCK.ban.creat", "Created locks", metric.Counter, metric.Integer, constant(0))
	add("MEMPOOL.req0.live", "In use", metric.Gauge, metric.Integer, wave("req0_live", 40, 20, 5*time.Minute))

	return d
}

// ScrapePeriod returns the demo sampling period.
func (d *Demo) ScrapePeriod() time.Duration {
	return d.period
}

// FetchCatalog lists every demo metric.
func (d *Demo) FetchCatalog(ctx context.Context, from, to time.Time, step time.Duration) (*Catalog, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	from, to, step, err := d.normalize(from, to, step)
	if err != nil {
		return nil, err
	}
	descs := make([]metric.Descriptor, 0, len(d.metrics))
	for _, m := range d.metrics {
		descs = append(descs, m.desc)
	}
	return &Catalog{From: from, To: to, Step: step, Clusters: Classify(descs)}, nil
}

// FetchSeries generates samples for one metric.
func (d *Demo) FetchSeries(ctx context.Context, req SeriesRequest) (*Series, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if req.MetricID < 1 || req.MetricID > len(d.metrics) {
		return nil, errors.New(errors.ErrFetch, "unexpected API response (404): Unknown metric ID", "")
	}
	m := d.metrics[req.MetricID-1]
	if !validAggregator(m.desc, req.Aggregator) {
		return nil, errors.New(errors.ErrFetch, "unexpected API response (400): Invalid 'aggregator' parameter", "")
	}

	from, to, step, err := d.normalize(req.From, req.To, req.Step)
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for t := from; t.Before(to); t = t.Add(step) {
		v := m.gen(t)
		if v.Null {
			// Buckets without samples are simply absent.
			continue
		}
		if req.Aggregator == metric.Count {
			v = metric.NumberValue(float64(step / d.period))
		}
		samples = append(samples, Sample{At: t, Value: v})
	}
	return &Series{From: from, To: to, Step: step, Samples: samples}, nil
}

func validAggregator(desc metric.Descriptor, a metric.Aggregator) bool {
	if desc.Kind == metric.Bitmap {
		switch a {
		case metric.First, metric.Last, metric.BitAnd, metric.Count:
			return true
		}
		return false
	}
	switch a {
	case metric.Avg, metric.Min, metric.Max, metric.First, metric.Last, metric.Count:
		return true
	}
	return false
}

// normalize aligns the range to step boundaries the way the storage API does:
// from rounds down, to rounds down then moves one step forward.
func (d *Demo) normalize(from, to time.Time, step time.Duration) (time.Time, time.Time, time.Duration, error) {
	if from.After(to) {
		return time.Time{}, time.Time{}, 0, errors.New(errors.ErrFetch,
			"unexpected API response (400): Invalid 'from' and 'to' parameters", "")
	}
	if step < d.period {
		step = d.period
	}
	s := max(int64(step/time.Second), 1)
	f, t := from.Unix(), to.Unix()
	return time.Unix(f-f%s, 0), time.Unix(t-t%s+s, 0), step, nil
}

func (d *Demo) wait(ctx context.Context) error {
	if d.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return errors.WrapWithCode(err, errors.ErrFetch, "request canceled", "")
		}
		return nil
	}
	select {
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.ErrFetch, "request canceled", "")
	case <-time.After(d.latency):
		return nil
	}
}

// noise returns a deterministic value in [-1, 1) for a series and time.
func noise(seed string, t time.Time) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d", seed, t.Unix())
	return float64(h.Sum64()%2000)/1000 - 1
}

func constant(v float64) func(time.Time) metric.Value {
	return func(time.Time) metric.Value { return metric.NumberValue(v) }
}

func wave(seed string, base, amp float64, period time.Duration) func(time.Time) metric.Value {
	return func(t time.Time) metric.Value {
		phase := 2 * math.Pi * float64(t.UnixNano()%int64(period)) / float64(period)
		v := base + amp*math.Sin(phase) + amp*0.15*noise(seed, t)
		return metric.NumberValue(math.Max(0, v))
	}
}

func steps(base, inc float64, every time.Duration) func(time.Time) metric.Value {
	return func(t time.Time) metric.Value {
		n := (t.Unix() / int64(every/time.Second)) % 4
		return metric.NumberValue(base + inc*float64(n))
	}
}

// outage drops the samples of minutes 40 to 43 of every hour.
func outage(gen func(time.Time) metric.Value) func(time.Time) metric.Value {
	return func(t time.Time) metric.Value {
		if m := t.Minute(); m >= 40 && m < 44 {
			return metric.Value{Null: true}
		}
		return gen(t)
	}
}

// probes yields a 64 bit health probe window with occasional failures.
func probes(seed string) func(time.Time) metric.Value {
	return func(t time.Time) metric.Value {
		var window uint64 = math.MaxUint64
		if noise(seed, t) > 0.7 {
			window &^= 1 << uint(t.Unix()%64)
		}
		return metric.HexValue(strconv.FormatUint(window, 16))
	}
}
