// Package gateway reads metric catalogs and series from a varnishmon
// compatible storage API.
package gateway

import (
	"context"
	"sort"
	"time"

	"github.com/rileyhilliard/statgrid/internal/metric"
)

// Gateway is the read-only metric store.
type Gateway interface {
	// FetchCatalog lists the metrics with samples in [from, to), classified
	// and clustered.
	FetchCatalog(ctx context.Context, from, to time.Time, step time.Duration) (*Catalog, error)
	// FetchSeries returns the aggregated samples of one metric.
	FetchSeries(ctx context.Context, req SeriesRequest) (*Series, error)
}

// Catalog is a classified metric listing. From, To and Step are the values
// adjusted by the store (aligned to step boundaries).
type Catalog struct {
	From     time.Time
	To       time.Time
	Step     time.Duration
	Clusters []Cluster
}

// Cluster groups metrics sharing a name prefix.
type Cluster struct {
	Name    string
	Metrics []metric.Descriptor
}

// MetricCount returns the number of metrics across all clusters.
func (c *Catalog) MetricCount() int {
	n := 0
	for _, cl := range c.Clusters {
		n += len(cl.Metrics)
	}
	return n
}

// SeriesRequest selects one metric series.
type SeriesRequest struct {
	MetricID   int
	From       time.Time
	To         time.Time
	Step       time.Duration
	Aggregator metric.Aggregator
}

// Sample is one (timestamp, value) pair.
type Sample struct {
	At    time.Time
	Value metric.Value
}

// Series is a metric's samples sorted by timestamp.
type Series struct {
	From    time.Time
	To      time.Time
	Step    time.Duration
	Samples []Sample
}

// SortSamples orders samples by timestamp, keeping the order of duplicates.
func SortSamples(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].At.Before(samples[j].At)
	})
}
